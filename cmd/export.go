package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FathurrahmanNasution/portfolio/internal/web"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the portfolio as a static site",
	Long: `Renders the page with every section revealed and plain anchor navigation,
and copies the static assets next to it. No server or websocket is needed to
view the result.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("out", "dist", "output directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, logger, portfolio, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	srv, err := web.New(web.Options{Config: cfg, Content: portfolio, Logger: logger})
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	if err := srv.ExportSite(out); err != nil {
		return fmt.Errorf("exporting site: %w", err)
	}
	fmt.Printf("Static site written to %s\n", out)
	return nil
}
