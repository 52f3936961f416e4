package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/voordathetnieuwswas/vhnw/internal/index"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/worker"
)

const rule = "═══════════════════════════════════════════════════════════"

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error encoding output: %w", err)
	}
	return nil
}

func jsonOutput() bool {
	return strings.EqualFold(format, "json")
}

// printResults writes verified results as a numbered list
func printResults(w io.Writer, results []model.ResultRecord) {
	if len(results) == 0 {
		fmt.Fprintln(w, "  No verified documents found.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "  %d. %s\n", i+1, r.Title)
		if r.OrganizationName != "" {
			fmt.Fprintf(w, "     %s", r.OrganizationName)
			if r.StartDate != "" {
				fmt.Fprintf(w, " · %s", r.StartDate)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "     %s\n", r.SourceURL)
		for _, h := range r.Highlights {
			fmt.Fprintf(w, "     > %s\n", h)
		}
	}
}

// printReport writes a scan report
func printReport(w io.Writer, report *model.Report) error {
	if jsonOutput() {
		return writeJSON(w, report)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s\n", report.SourceURL)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Adapter:   %s\n", report.Adapter)
	fmt.Fprintf(w, "  Keywords:  %s\n", joinKeywords(report.Keywords))
	if report.Cached {
		fmt.Fprintln(w, "  (from cache)")
	}
	fmt.Fprintln(w)
	printResults(w, report.Results)
	fmt.Fprintln(w)
	return nil
}

type linkCountView struct {
	URL      string         `json:"url"`
	Text     string         `json:"text,omitempty"`
	Keywords model.Keywords `json:"keywords"`
	Count    int            `json:"count"`
	Cached   bool           `json:"cached"`
	Error    string         `json:"error,omitempty"`
}

// printLinkCounts writes the hit counts of overview links
func printLinkCounts(w io.Writer, counts []*worker.LinkCount) error {
	if jsonOutput() {
		views := make([]linkCountView, 0, len(counts))
		for _, c := range counts {
			v := linkCountView{URL: c.Link.URL, Text: c.Link.Text, Keywords: c.Keywords, Count: c.Count, Cached: c.Cached}
			if v.Keywords == nil {
				v.Keywords = model.Keywords{}
			}
			if c.Error != nil {
				v.Error = c.Error.Error()
			}
			views = append(views, v)
		}
		return writeJSON(w, views)
	}

	for _, c := range counts {
		switch {
		case c.Error != nil:
			fmt.Fprintf(w, "  ✗ %s: %v\n", c.Link.URL, c.Error)
		case len(c.Keywords) == 0:
			fmt.Fprintf(w, "  -  %s\n", c.Link.URL)
		default:
			mark := ""
			if c.Cached {
				mark = " (cached)"
			}
			fmt.Fprintf(w, "  %3d %s [%s]%s\n", c.Count, c.Link.URL, joinKeywords(c.Keywords), mark)
		}
	}
	return nil
}

// printOrganizations writes the provinces and municipalities
func printOrganizations(w io.Writer, orgs *index.Organizations) error {
	if jsonOutput() {
		return writeJSON(w, orgs)
	}

	fmt.Fprintln(w, "Provinces:")
	for _, o := range orgs.Provinces {
		fmt.Fprintf(w, "  %-32s %s\n", o.Name, o.Collection)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Municipalities:")
	for _, o := range orgs.Municipalities {
		fmt.Fprintf(w, "  %-32s %s\n", o.Name, o.Collection)
	}
	return nil
}

func joinKeywords(keywords model.Keywords) string {
	if len(keywords) == 0 {
		return "(none)"
	}
	return strings.Join(keywords, ", ")
}
