package model

import "time"

// Keywords is an ordered list of unique search terms, highest priority first
type Keywords []string

// CacheEntry is the memoized outcome of a keyword search for one key (an
// article URL or a sentinel name).
//
// A nil Count or nil Results means "not resolved yet". A resolved zero count
// or empty result list must not be fetched again.
type CacheEntry struct {
	Count    *int           `json:"count"`
	Results  []ResultRecord `json:"results"`
	Time     int64          `json:"time"` // epoch millis
	Keywords Keywords       `json:"keywords"`
}

// NewCacheEntry returns an unresolved entry stamped with now
func NewCacheEntry(now time.Time) CacheEntry {
	return CacheEntry{
		Time:     now.UnixMilli(),
		Keywords: Keywords{},
	}
}

// CountResolved reports whether the hit count has been fetched
func (e CacheEntry) CountResolved() bool {
	return e.Count != nil
}

// ResultsResolved reports whether verified results have been fetched
func (e CacheEntry) ResultsResolved() bool {
	return e.Results != nil
}

// WithCount returns a copy of the entry with the count resolved
func (e CacheEntry) WithCount(count int, keywords Keywords) CacheEntry {
	e.Count = &count
	e.Keywords = keywords
	return e
}

// WithResults returns a copy of the entry with the results resolved
func (e CacheEntry) WithResults(results []ResultRecord, keywords Keywords) CacheEntry {
	if results == nil {
		results = []ResultRecord{}
	}
	e.Results = results
	e.Keywords = keywords
	return e
}

// Age returns how old the entry is relative to now
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(e.Time))
}
