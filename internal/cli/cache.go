package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached counts and results",
	Long: `Clear removes every cached entry from memory and from the configured
backend. Run it after upgrading when the cached format changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closer, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		n := store.Len()
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}

		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache already empty.")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached entr%s.\n", n, plural(n, "y", "ies"))
		}
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closer, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		dir, _ := cacheDir(cfg)
		stats := store.Stats()

		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"backend":  cfg.Cache.Backend,
				"dir":      dir,
				"entries":  stats.Entries,
				"expired":  stats.Expired,
				"counts":   stats.Counts,
				"results":  stats.Results,
				"oldest":   stats.Oldest.Round(time.Second).String(),
				"duration": stats.Duration.String(),
			})
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Backend:   %s (%s)\n", cfg.Cache.Backend, dir)
		fmt.Fprintf(w, "Entries:   %d (%d expired)\n", stats.Entries, stats.Expired)
		fmt.Fprintf(w, "Counts:    %d\n", stats.Counts)
		fmt.Fprintf(w, "Results:   %d\n", stats.Results)
		fmt.Fprintf(w, "Oldest:    %s\n", stats.Oldest.Round(time.Second))
		fmt.Fprintf(w, "Duration:  %s\n", stats.Duration)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
