package index

import (
	"strings"
	"time"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

// Document types known to the index
const (
	TypeEvents        = "events"
	TypeOrganizations = "organizations"
)

const dateLayout = "2006-01-02"

// Query describes a search against the index
type Query struct {
	Keywords        model.Keywords
	Types           []string
	Collections     []string // nil means no organization filter
	Classifications []string
	From, To        time.Time // zero means open ended
	Size            int
	Offset          int
}

// EventQuery returns a query for events matching all keywords within the
// window ending at now
func EventQuery(keywords model.Keywords, collections []string, window time.Duration, now time.Time) Query {
	q := Query{
		Keywords:    keywords,
		Types:       []string{TypeEvents},
		Collections: collections,
		Size:        10,
	}
	if window > 0 {
		q.From = now.Add(-window)
		q.To = now
	}
	return q
}

type terms struct {
	Terms []string `json:"terms"`
}

type dateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type filters struct {
	Types          *terms     `json:"types,omitempty"`
	Collection     *terms     `json:"collection,omitempty"`
	Classification *terms     `json:"classification,omitempty"`
	StartDate      *dateRange `json:"start_date,omitempty"`
}

type searchRequest struct {
	Query   string  `json:"query,omitempty"`
	Filters filters `json:"filters"`
	Size    int     `json:"size"`
	From    int     `json:"from"`
}

// request builds the wire body
func (q Query) request() searchRequest {
	req := searchRequest{
		Query: QueryString(q.Keywords),
		Size:  q.Size,
		From:  q.Offset,
	}

	if len(q.Types) > 0 {
		req.Filters.Types = &terms{Terms: q.Types}
	}
	if q.Collections != nil {
		req.Filters.Collection = &terms{Terms: q.Collections}
	}
	if len(q.Classifications) > 0 {
		req.Filters.Classification = &terms{Terms: q.Classifications}
	}
	if !q.From.IsZero() || !q.To.IsZero() {
		r := &dateRange{}
		if !q.From.IsZero() {
			r.From = q.From.Format(dateLayout)
		}
		if !q.To.IsZero() {
			r.To = q.To.Format(dateLayout)
		}
		req.Filters.StartDate = r
	}

	return req
}

// QueryString quotes each keyword for exact phrase matching
func QueryString(keywords model.Keywords) string {
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ReplaceAll(kw, `"`, ""))
		if kw != "" {
			quoted = append(quoted, `"`+kw+`"`)
		}
	}
	return strings.Join(quoted, " ")
}
