package index

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/worker"
)

var (
	// ErrUnexpectedStatus is wrapped with the status code of a failed request
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedResponse is returned when the response body cannot be decoded
	ErrMalformedResponse = errors.New("malformed response")
)

const (
	retryDelay      = 500 * time.Millisecond
	maxResponse     = 10 << 20
	organizationTTL = 24 * time.Hour
)

// Client talks to the search index
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *worker.Limiter
	userAgent  string
	sleep      func(time.Duration)

	orgMu sync.Mutex
	orgs  *gocache.Cache
}

// NewClient creates a client for the index at baseURL. A nil limiter
// disables rate limiting.
func NewClient(baseURL string, httpClient *http.Client, limiter *worker.Limiter) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		sleep:      time.Sleep,
		orgs:       gocache.New(organizationTTL, time.Hour),
	}
}

// SetUserAgent sets the User-Agent header sent with each request
func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

// Search runs the query. A transport failure or non-200 response is retried
// once; the second failure is returned.
func (c *Client) Search(ctx context.Context, q Query) (*model.SearchResponse, error) {
	body, err := json.Marshal(q.request())
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	resp, err := c.post(ctx, body)
	if err != nil && retryable(err) && ctx.Err() == nil {
		c.sleep(retryDelay)
		resp, err = c.post(ctx, body)
	}
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) post(ctx context.Context, body []byte) (*model.SearchResponse, error) {
	endpoint := c.baseURL + "/search"

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var out model.SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponse)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &out, nil
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return "search: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// StatusError reports a non-200 response; it matches ErrUnexpectedStatus
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// retryable reports whether err is a transport failure or a non-200 response
func retryable(err error) bool {
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se)
}
