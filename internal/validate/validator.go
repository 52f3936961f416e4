package validate

import (
	"sort"
	"strings"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

var emphasis = strings.NewReplacer("<em>", "", "</em>", "")

// StripEmphasis removes the index's emphasis markers from a highlight fragment
func StripEmphasis(fragment string) string {
	return strings.TrimSpace(emphasis.Replace(fragment))
}

// Fragments returns the stripped highlight fragments of an event, ordered by
// field path. Empty fragments are dropped.
func Fragments(event model.Event) []string {
	fields := make([]string, 0, len(event.Meta.Highlight))
	for field := range event.Meta.Highlight {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var fragments []string
	for _, field := range fields {
		for _, f := range event.Meta.Highlight[field] {
			if s := StripEmphasis(f); s != "" {
				fragments = append(fragments, s)
			}
		}
	}
	return fragments
}

// Collector accumulates verified results up to a maximum. A source is
// accepted only when it has text, its URL was not used before, and a
// highlight of its event occurs literally in that text. Highlights are
// reported per event, so this attributes them to the right source.
type Collector struct {
	max     int
	used    map[string]struct{}
	results []model.ResultRecord
}

// NewCollector creates a collector holding at most max results
func NewCollector(max int) *Collector {
	if max <= 0 {
		max = 10
	}
	return &Collector{
		max:     max,
		used:    make(map[string]struct{}),
		results: []model.ResultRecord{},
	}
}

// Add verifies the sources of an event and returns how many were accepted
func (c *Collector) Add(event model.Event, organizationName string) int {
	fragments := Fragments(event)
	if len(fragments) == 0 {
		return 0
	}

	accepted := 0
	for _, src := range event.Sources {
		if c.Full() {
			break
		}
		if src.Description == "" || src.URL == "" {
			continue
		}
		if _, ok := c.used[src.URL]; ok {
			continue
		}

		matched := matching(fragments, src.Description)
		if len(matched) == 0 {
			continue
		}

		c.used[src.URL] = struct{}{}
		c.results = append(c.results, model.ResultRecord{
			ID:               event.ID,
			OrganizationName: organizationName,
			Title:            event.Name,
			SourceURL:        src.URL,
			Highlights:       matched,
			StartDate:        event.StartDate,
		})
		accepted++
	}

	return accepted
}

// Full reports whether the maximum has been reached
func (c *Collector) Full() bool {
	return len(c.results) >= c.max
}

// Results returns the accepted results in the order they were added
func (c *Collector) Results() []model.ResultRecord {
	return c.results
}

func matching(fragments []string, text string) []string {
	var matched []string
	for _, f := range fragments {
		if strings.Contains(text, f) {
			matched = append(matched, f)
		}
	}
	return matched
}
