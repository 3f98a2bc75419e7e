package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FathurrahmanNasution/portfolio/internal/config"
	"github.com/FathurrahmanNasution/portfolio/internal/content"
	"github.com/FathurrahmanNasution/portfolio/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site with server-side scroll tracking",
	Long: `Serves a single-page portfolio. Navigation and section reveal state live
on the server, one view per open page, fed by the browser's intersection
reports over a websocket.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// setup loads the configuration, logger and portfolio content shared by
// every subcommand.
func setup() (*config.Config, *zap.Logger, *content.Portfolio, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building logger: %w", err)
	}
	p, err := content.Load(cfg.Content.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading content: %w", err)
	}
	return cfg, logger, p, nil
}
