package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FathurrahmanNasution/portfolio/internal/analytics"
	"github.com/FathurrahmanNasution/portfolio/internal/content"
	"github.com/FathurrahmanNasution/portfolio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("watch", false, "reload the content file when it changes")
	rootCmd.AddCommand(serveCmd)
	// A bare invocation serves, like the old single-binary site did.
	rootCmd.RunE = runServe
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, portfolio, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		cfg.Content.Watch = true
	}

	var store *analytics.Store
	if cfg.Analytics.Enabled {
		store, err = analytics.Open(cfg.Analytics.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info("analytics enabled", zap.String("db", cfg.Analytics.DBPath))
	}

	srv, err := web.New(web.Options{
		Config:    cfg,
		Content:   portfolio,
		Analytics: store,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Content.Watch {
		if cfg.Content.Path == "" {
			logger.Warn("content watch requested without a content path, ignoring")
		} else {
			go func() {
				if err := content.Watch(ctx, cfg.Content.Path, logger, srv.SetContent); err != nil {
					logger.Error("content watch stopped", zap.Error(err))
				}
			}()
		}
	}

	return srv.Run(ctx)
}
