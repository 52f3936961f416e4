package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/pipeline"
	"github.com/voordathetnieuwswas/vhnw/internal/worker"
)

var (
	scanTimeout time.Duration
	scanFile    string
	scanWorkers int
	noCache     bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [url]",
	Short: "Find verified council documents for a news article",
	Long: `Scan fetches a news article, extracts its keywords and searches the
index for documents from the last two weeks whose highlights occur
verbatim in their own source text. At most 10 documents are reported.

Results are cached per article URL.

Example:
  vhnw scan https://nos.nl/artikel/2500000-gemeente-utrecht-bouwt-nieuwe-woonwijk
  vhnw scan --file urls.txt --workers 4 --format json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if scanFile == "" {
			return cobra.ExactArgs(1)(cmd, args)
		}
		return cobra.NoArgs(cmd, args)
	},
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVar(&scanFile, "file", "", "read article URLs from file (one per line)")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "concurrent scans with --file (default: concurrency.workers)")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh search)")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), scanTimeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if scanFile == "" {
		if verbose {
			fmt.Fprintf(os.Stderr, "Scanning: %s\n", args[0])
		}
		report, err := a.pipeline.ScanURL(ctx, args[0])
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		return printReport(cmd.OutOrStdout(), report)
	}

	urls, err := worker.ReadURLsFromFile(scanFile)
	if err != nil {
		return err
	}
	workers := scanWorkers
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning %d URLs with %d workers\n", len(urls), workers)
	}

	reports, failed := scanAll(ctx, a.pipeline, urls, workers)
	for _, r := range reports {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.url, r.err)
			continue
		}
		if err := printReport(cmd.OutOrStdout(), r.report); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scans failed", failed, len(urls))
	}
	return nil
}

// scanResult is the outcome of one scan in a batch
type scanResult struct {
	url    string
	report *model.Report
	err    error
	index  int
}

func (r *scanResult) GetError() error {
	return r.err
}

type scanJob struct {
	url      string
	index    int
	pipeline *pipeline.Pipeline
}

func (j *scanJob) Execute(ctx context.Context) worker.Result {
	report, err := j.pipeline.ScanURL(ctx, j.url)
	return &scanResult{url: j.url, report: report, err: err, index: j.index}
}

// scanAll scans urls concurrently and returns the results in input order
func scanAll(ctx context.Context, p *pipeline.Pipeline, urls []string, workers int) ([]*scanResult, int) {
	pool := worker.NewPool(ctx, workers)
	pool.Start()
	for i, u := range urls {
		pool.Submit(&scanJob{url: u, index: i, pipeline: p})
	}

	results := make([]*scanResult, len(urls))
	for _, r := range pool.Wait() {
		sr := r.(*scanResult)
		results[sr.index] = sr
	}

	failed := 0
	for i, r := range results {
		if r == nil {
			results[i] = &scanResult{url: urls[i], err: ctx.Err(), index: i}
		}
		if results[i].err != nil {
			failed++
		}
	}
	return results, failed
}
