package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/settings"
)

var (
	linksTimeout time.Duration
	linksWatch   time.Duration
)

// linksCmd represents the links command
var linksCmd = &cobra.Command{
	Use:   "links <url>",
	Short: "Count index hits for the articles linked from an overview page",
	Long: `Links fetches an overview page (a news front page or section), extracts
the keywords of every linked article and reports how many documents the
index holds for each of them.

Counts are cached per article URL. With --watch the page is rescanned at
the given interval and changes to the organization settings in the config
file clear the cache.

Example:
  vhnw links https://www.rtvutrecht.nl/nieuws
  vhnw links https://nos.nl/nieuws/binnenland --watch 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runLinks,
}

func init() {
	rootCmd.AddCommand(linksCmd)

	linksCmd.Flags().DurationVar(&linksTimeout, "timeout", 5*time.Minute, "timeout per scan of the overview page")
	linksCmd.Flags().DurationVar(&linksWatch, "watch", 0, "rescan interval (0 scans once)")
	linksCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh search)")
}

func runLinks(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if linksWatch <= 0 {
		return scanLinksOnce(ctx, cmd, a, args[0])
	}

	// options are applied between scans
	updates := make(chan model.Options, 1)
	if a.store != nil {
		w := settings.NewWatcher(viper.GetViper(), a.store)
		if verbose {
			w.Log = os.Stderr
		}
		w.OnChange = func(opts model.Options) {
			select {
			case <-updates:
			default:
			}
			updates <- opts
		}
		w.Start(ctx)
	}

	ticker := time.NewTicker(linksWatch)
	defer ticker.Stop()

	for {
		if err := scanLinksOnce(ctx, cmd, a, args[0]); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case opts := <-updates:
			a.correlator.Collections = opts.EnabledCollections()
			if verbose {
				fmt.Fprintf(os.Stderr, "Organization filter updated\n")
			}
		case <-ticker.C:
		}
	}
}

func scanLinksOnce(ctx context.Context, cmd *cobra.Command, a *app, pageURL string) error {
	ctx, cancel := context.WithTimeout(ctx, linksTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning links on: %s\n", pageURL)
	}

	counts, err := a.pipeline.ScanLinks(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return printLinkCounts(cmd.OutOrStdout(), counts)
}
