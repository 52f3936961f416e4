package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { fetchSleepFunc = orig })
	return &slept
}

func TestFetch_HeadersAndMeta(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Cache-Control", "max-age=60")
		_, _ = fmt.Fprint(w, "<html><body>Nieuws</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcherFromConfig(model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "vhnw-test", MaxBodyBytes: 1 << 20})
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotUA != "vhnw-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if !strings.HasPrefix(gotLang, "nl-NL") {
		t.Errorf("Accept-Language = %q, want Dutch first", gotLang)
	}
	if result.Meta.StatusCode != http.StatusOK || result.Meta.ETag != `"v1"` {
		t.Errorf("unexpected meta: %+v", result.Meta)
	}
	if result.Meta.Headers["Cache-Control"] != "max-age=60" {
		t.Errorf("Cache-Control not recorded: %v", result.Meta.Headers)
	}
}

func TestFetch_MaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("a", 100))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 10, false, "", "", "")
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(result.HTML) != 10 {
		t.Errorf("expected body cut at 10 bytes, got %d", len(result.HTML))
	}
}

func TestFetch_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/kort", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/nieuws/artikel", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/nieuws/artikel", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	result, err := fetcher.Fetch(context.Background(), server.URL+"/kort")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.FinalURL != server.URL+"/nieuws/artikel" {
		t.Errorf("FinalURL = %q", result.FinalURL)
	}
}

func TestFetchWithRetry(t *testing.T) {
	tests := []struct {
		name     string
		statuses []int // status per attempt, 200 afterwards
		wantErr  string
		attempts int32
		sleeps   []time.Duration
	}{
		{"success", nil, "", 1, nil},
		{"transient then success", []int{503, 503}, "", 3, []time.Duration{time.Second, 2 * time.Second}},
		{"rate limited once", []int{429}, "", 2, []time.Duration{time.Second}},
		{"not found is permanent", []int{404}, "unexpected status: 404 404 Not Found", 1, nil},
		{"retries exhausted", []int{503, 503, 503}, "unexpected status: 503", 3, []time.Duration{time.Second, 2 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slept := noSleep(t)

			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := int(attempts.Add(1))
				if n <= len(tt.statuses) {
					w.WriteHeader(tt.statuses[n-1])
					return
				}
				w.Header().Set("Content-Type", "text/html")
				_, _ = fmt.Fprint(w, "<html>OK</html>")
			}))
			defer server.Close()

			fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
			result, err := fetcher.FetchWithRetry(context.Background(), server.URL)

			if tt.wantErr != "" {
				if err == nil || !strings.HasPrefix(err.Error(), tt.wantErr) {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.HTML != "<html>OK</html>" {
					t.Errorf("unexpected HTML: %s", result.HTML)
				}
			}

			if got := attempts.Load(); got != tt.attempts {
				t.Errorf("expected %d attempts, got %d", tt.attempts, got)
			}
			if len(*slept) != len(tt.sleeps) {
				t.Fatalf("expected sleeps %v, got %v", tt.sleeps, *slept)
			}
			for i, d := range tt.sleeps {
				if (*slept)[i] != d {
					t.Errorf("sleep %d = %v, want %v", i, (*slept)[i], d)
				}
			}
		})
	}
}

func TestFetchWithRetry_CancelledContext(t *testing.T) {
	noSleep(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	if _, err := fetcher.FetchWithRetry(ctx, server.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"unexpected status: 503 503 Service Unavailable", true},
		{"unexpected status: 500 500 Internal Server Error", true},
		{"unexpected status: 429 429 Too Many Requests", true},
		{"unexpected status: 404 404 Not Found", false},
		{"unexpected status: 403 403 Forbidden", false},
		{"fetch: connection refused", true},
		{"create request: invalid URL", false},
		{"read body: unexpected EOF", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			got := isRetryableFetchError(fmt.Errorf("%s", tt.err))
			if got != tt.retryable {
				t.Errorf("isRetryableFetchError(%q) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}

	if isRetryableFetchError(nil) {
		t.Error("nil error should not be retryable")
	}
}
