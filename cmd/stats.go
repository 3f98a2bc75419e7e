package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/FathurrahmanNasution/portfolio/internal/analytics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the analytics summary as JSON",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("cleanup", false, "delete records older than the retention period first")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, logger, _, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.Analytics.Enabled {
		return errors.New("analytics are disabled in the configuration")
	}
	store, err := analytics.Open(cfg.Analytics.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if cleanup, _ := cmd.Flags().GetBool("cleanup"); cleanup {
		if _, err := store.Cleanup(ctx, cfg.Analytics.Retention()); err != nil {
			return err
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
