package correlate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/voordathetnieuwswas/vhnw/internal/index"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/validate"
)

// Searcher runs queries against the search index
type Searcher interface {
	Search(ctx context.Context, q index.Query) (*model.SearchResponse, error)
}

// OrganizationIndex resolves collections to organization names
type OrganizationIndex interface {
	Organizations(ctx context.Context) (*index.Organizations, error)
}

// Correlator finds documents in the index that back an article's keywords
type Correlator struct {
	Searcher      Searcher
	Organizations OrganizationIndex // optional
	Collections   []string          // nil searches all organizations
	Window        time.Duration
	PageSize      int
	MaxResults    int
	Now           func() time.Time
	Log           io.Writer
}

// New creates a correlator with the search settings from cfg
func New(searcher Searcher, cfg model.SearchConfig, options model.Options) *Correlator {
	c := &Correlator{
		Searcher:    searcher,
		Collections: options.EnabledCollections(),
		Window:      cfg.LookbackDuration(),
		PageSize:    cfg.PageSize,
		MaxResults:  cfg.MaxResults,
	}
	if orgs, ok := searcher.(OrganizationIndex); ok {
		c.Organizations = orgs
	}
	return c
}

// FindCount returns the number of hits the index reports for the keywords
func (c *Correlator) FindCount(ctx context.Context, keywords model.Keywords) (int, error) {
	if len(keywords) == 0 {
		return 0, nil
	}

	q := index.EventQuery(keywords, c.Collections, c.Window, c.now())
	q.Size = 0

	resp, err := c.Searcher.Search(ctx, q)
	if errors.Is(err, index.ErrMalformedResponse) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find count: %w", err)
	}

	return resp.Total(), nil
}

// FindVerifiedResults pages through the hits for the keywords and returns
// at most MaxResults sources whose highlights were found in their own text,
// in page order. A malformed page counts as a page without evidence.
func (c *Correlator) FindVerifiedResults(ctx context.Context, keywords model.Keywords) ([]model.ResultRecord, error) {
	if len(keywords) == 0 {
		return []model.ResultRecord{}, nil
	}

	pageSize := c.pageSize()
	collector := validate.NewCollector(c.MaxResults)
	names := c.organizationNames(ctx)
	now := c.now()

	total := 0
	for offset := 0; ; {
		q := index.EventQuery(keywords, c.Collections, c.Window, now)
		q.Size = pageSize
		q.Offset = offset * pageSize

		resp, err := c.Searcher.Search(ctx, q)
		offset++

		switch {
		case errors.Is(err, index.ErrMalformedResponse):
			c.logf("skipping malformed page %d: %v\n", offset, err)
		case err != nil:
			return nil, fmt.Errorf("find results: %w", err)
		default:
			if resp.Meta != nil {
				total = resp.Meta.Total
			}
			for _, event := range resp.Events {
				collector.Add(event, names[event.Meta.Collection])
				if collector.Full() {
					break
				}
			}
		}

		if collector.Full() || offset*pageSize >= total {
			break
		}
	}

	return collector.Results(), nil
}

func (c *Correlator) organizationNames(ctx context.Context) map[string]string {
	names := make(map[string]string)
	if c.Organizations == nil {
		return names
	}

	orgs, err := c.Organizations.Organizations(ctx)
	if err != nil {
		c.logf("organization lookup failed: %v\n", err)
		return names
	}

	for collection, name := range orgs.ProvinceNames() {
		names[collection] = name
	}
	for collection, name := range orgs.MunicipalityNames() {
		names[collection] = name
	}
	return names
}

func (c *Correlator) pageSize() int {
	if c.PageSize <= 0 {
		return 10
	}
	return c.PageSize
}

func (c *Correlator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Correlator) logf(format string, args ...any) {
	if c.Log != nil {
		fmt.Fprintf(c.Log, format, args...)
	}
}
