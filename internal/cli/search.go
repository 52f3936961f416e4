package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

var (
	searchCount   bool
	searchTimeout time.Duration
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <keyword>...",
	Short: "Search the index for verified documents matching keywords",
	Long: `Search queries the index directly with the given keywords (each quoted
as an exact phrase) and reports the verified documents, or only the hit
count with --count.

Example:
  vhnw search utrecht woonwijk leidsche rijn
  vhnw search --count maastricht tram`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// organizationsCmd represents the organizations command
var organizationsCmd = &cobra.Command{
	Use:   "organizations",
	Short: "List the provinces and municipalities known to the index",
	Long: `Organizations lists the collections that can be enabled in
options.enabled_provinces and options.enabled_municipalities.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		orgs, err := newClient(cfg).Organizations(ctx)
		if err != nil {
			return err
		}
		return printOrganizations(cmd.OutOrStdout(), orgs)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(organizationsCmd)

	searchCmd.Flags().BoolVar(&searchCount, "count", false, "only report the number of hits")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", time.Minute, "search timeout")
}

type searchView struct {
	Keywords model.Keywords       `json:"keywords"`
	Count    *int                 `json:"count,omitempty"`
	Results  []model.ResultRecord `json:"results,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	noCache = true
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	keywords := make(model.Keywords, 0, len(args))
	for _, arg := range args {
		if kw := strings.ToLower(strings.TrimSpace(arg)); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	view := searchView{Keywords: keywords}
	if searchCount {
		count, err := a.correlator.FindCount(ctx, keywords)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		view.Count = &count
	} else {
		results, err := a.correlator.FindVerifiedResults(ctx, keywords)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		view.Results = results
	}

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), view)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Keywords:  %s\n", joinKeywords(keywords))
	if view.Count != nil {
		fmt.Fprintf(w, "Hits:      %d\n", *view.Count)
		return nil
	}
	fmt.Fprintln(w)
	printResults(w, view.Results)
	return nil
}
