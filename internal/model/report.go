package model

import "time"

// Report is the outcome of scanning a single article
type Report struct {
	SourceURL string    `json:"source_url"`        // URL that was scanned
	FetchedAt time.Time `json:"fetched_at"`        // When the scan occurred
	FetchMeta FetchMeta `json:"fetch_meta"`        // HTTP metadata
	Adapter   string    `json:"adapter,omitempty"` // Site adapter used for extraction

	Keywords Keywords       `json:"keywords"`        // Extracted keywords, highest priority first
	Count    *int           `json:"count,omitempty"` // Total hits reported by the index
	Results  []ResultRecord `json:"results"`         // Verified results, at most 10
	Cached   bool           `json:"cached"`          // Whether the results came from the cache
}

// FetchMeta contains HTTP metadata from fetching the source
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// HasResults reports whether the report carries at least one verified result
func (r *Report) HasResults() bool {
	return r != nil && len(r.Results) > 0
}
