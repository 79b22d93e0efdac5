// Command quotasync uploads survey quota progress for every market to the report spreadsheet.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/locvowork/quota_tracker/internal/bootstrap"
)

var (
	markets    []string
	exclude    []string
	xlsxPath   string
	stylesPath string
	envFile    string
	timeout    time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quotasync",
		Short: "Sync survey quota tables to the report spreadsheet",
		Long: `quotasync fetches quota and completion counts for every survey market,
lays them out as tables and writes one tab per market to Google Sheets
or, with --xlsx, to a local workbook.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringSliceVar(&markets, "markets", nil, "Only report these markets (full key or short code)")
	rootCmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Skip these markets (overrides MARKET_FILTER_OUT)")
	rootCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write to a local workbook instead of Google Sheets")
	rootCmd.Flags().StringVar(&stylesPath, "styles", "", "YAML style template (overrides STYLE_TEMPLATE_PATH)")
	rootCmd.Flags().StringVar(&envFile, "env", "", "Environment file to load (default: .env)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall run deadline (overrides RUN_TIMEOUT)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := bootstrap.Options{
		Markets:    markets,
		Exclude:    exclude,
		XLSXPath:   xlsxPath,
		StylesPath: stylesPath,
		Timeout:    timeout,
	}
	if envFile != "" {
		opts.EnvFiles = []string{envFile}
	}

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx, opts); err != nil {
		return err
	}

	summary, err := app.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "updated %d tabs, skipped %d markets\n", len(summary.Markets), len(summary.Skipped))
	for _, s := range summary.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", s.Market, s.Err)
	}
	return nil
}
