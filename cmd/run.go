package cmd

import (
	"github.com/huangsam/docname/core"
	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/internal/outwriter"
	"github.com/huangsam/docname/internal/raster"
	"github.com/huangsam/docname/internal/vision"
	"github.com/spf13/cobra"
)

// runCmd analyzes documents and renames them.
var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Analyze documents and propose or apply descriptive filenames.",
	Long: `Analyze each document with the configured vision model and build a
date_description_id filename from what the model reads off the first page.

By default nothing is touched: every file gets a proposed name and the run is
reported as a dry run. Pass --execute to apply the renames and record them in
the rename journal.

Analyses are cached by content fingerprint, so re-running over the same
documents is free even after they have been renamed or moved.

Examples:
  # Preview proposed names for the current directory
  docname run

  # Rename everything under ~/scans, including subdirectories
  docname run --execute --recursive ~/scans

  # Receipts get a date_store_description format
  docname run --receipt --execute ~/receipts

  # Slow down requests to a struggling model server
  docname run --workers 2 --delay 2s ~/scans

  # Export results to CSV and keep a full JSON audit log
  docname run --output csv --output-file runs.csv --save-log run.json ~/scans`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		model := vision.NewClient(cfg)
		converter := raster.NewConverter()

		result, err := core.Run(rootCtx, cfg, model, converter, cacheManager)
		if err != nil {
			contract.LogFatal("Cannot run document analysis", err)
		}

		if err := outwriter.WriteRunResult(result, cfg); err != nil {
			contract.LogFatal("Cannot write run output", err)
		}

		if cfg.SaveLog != "" {
			if err := outwriter.WriteRunLog(result, cfg.SaveLog); err != nil {
				contract.LogFatal("Cannot save run log", err)
			}
		}
	},
}
