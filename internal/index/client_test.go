package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

func newTestClient(url string) *Client {
	c := NewClient(url, nil, nil)
	c.sleep = func(time.Duration) {}
	return c
}

func TestQueryString(t *testing.T) {
	got := QueryString(model.Keywords{"gemeenteraad", `zwem"bad`, " ", "kerkstraat"})
	want := `"gemeenteraad" "zwembad" "kerkstraat"`
	if got != want {
		t.Errorf("QueryString = %s, want %s", got, want)
	}
}

func TestEventQueryRequest(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	q := EventQuery(model.Keywords{"a", "b"}, []string{"ori_utrecht"}, 14*24*time.Hour, now)
	q.Offset = 20

	data, err := json.Marshal(q.request())
	if err != nil {
		t.Fatal(err)
	}

	want := `{"query":"\"a\" \"b\"","filters":{"types":{"terms":["events"]},"collection":{"terms":["ori_utrecht"]},"start_date":{"from":"2024-03-01","to":"2024-03-15"}},"size":10,"from":20}`
	if string(data) != want {
		t.Errorf("request\n got %s\nwant %s", data, want)
	}
}

func TestEventQueryWithoutCollections(t *testing.T) {
	q := EventQuery(model.Keywords{"a"}, nil, 0, time.Now())
	req := q.request()
	if req.Filters.Collection != nil {
		t.Error("collection filter should be omitted")
	}
	if req.Filters.StartDate != nil {
		t.Error("date filter should be omitted without a window")
	}
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v0/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["query"] != `"raad"` {
			t.Errorf("query = %v", body["query"])
		}
		_, _ = fmt.Fprint(w, `{"meta":{"total":1,"took":3},"events":[{"id":"e1","name":"Raadsvergadering","sources":[{"description":"De raad besluit","url":"https://x/1"}],"meta":{"highlight":{"sources.description":["De <em>raad</em> besluit"]}}}]}`)
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL+"/v0/").Search(context.Background(), Query{Keywords: model.Keywords{"raad"}, Size: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total() != 1 || len(resp.Events) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got := resp.Events[0].Meta.Highlight["sources.description"]; len(got) != 1 {
		t.Errorf("highlight = %v", got)
	}
}

func TestSearchRetriesOnce(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = fmt.Fprint(w, `{"meta":{"total":0,"took":1},"events":[]}`)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Search(context.Background(), Query{}); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestSearchFailsAfterSecondFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), Query{})
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestSearchClientErrorRetriedOnce(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprint(w, `{"meta": {"total": 0, "took": 1}, "events": []}`)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Search(context.Background(), Query{}); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestSearchClientErrorFailsAfterRetry(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), Query{})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 status error, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestSearchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Search(context.Background(), Query{})
	var te *transportError
	if !errors.As(err, &te) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestSearchMalformed(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = fmt.Fprint(w, `{"meta": [`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), Query{})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("malformed response retried: attempts = %d", attempts.Load())
	}
}

func TestOrganizations(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var body searchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Filters.Types == nil || body.Filters.Types.Terms[0] != TypeOrganizations {
			t.Errorf("types filter = %+v", body.Filters.Types)
		}
		if body.Filters.Classification == nil || len(body.Filters.Classification.Terms) != 2 {
			t.Errorf("classification filter = %+v", body.Filters.Classification)
		}
		_, _ = fmt.Fprint(w, `{"meta":{"total":4},"organizations":[
			{"id":"3","name":"Utrecht","classification":"Province","collection":"osi_utrecht"},
			{"id":"1","name":"Zeist","classification":"Municipality","collection":"ori_zeist"},
			{"id":"2","name":"amersfoort","classification":"Municipality","meta":{"collection":"ori_amersfoort"}},
			{"id":"4","name":"Limburg","classification":"Province","collection":"osi_limburg"}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	orgs, err := client.Organizations(context.Background())
	if err != nil {
		t.Fatalf("Organizations: %v", err)
	}

	if len(orgs.Provinces) != 2 || orgs.Provinces[0].Name != "Limburg" {
		t.Errorf("provinces = %+v", orgs.Provinces)
	}
	if len(orgs.Municipalities) != 2 || orgs.Municipalities[0].Collection != "ori_amersfoort" {
		t.Errorf("municipalities = %+v", orgs.Municipalities)
	}
	if name, ok := orgs.Name("ori_zeist"); !ok || name != "Zeist" {
		t.Errorf("Name(ori_zeist) = %q, %v", name, ok)
	}
	if orgs.ProvinceNames()["osi_utrecht"] != "Utrecht" {
		t.Errorf("province names = %v", orgs.ProvinceNames())
	}

	if _, err := client.Organizations(context.Background()); err != nil {
		t.Fatal(err)
	}
	if requests.Load() != 1 {
		t.Errorf("organization lookup should run once, got %d requests", requests.Load())
	}
}
