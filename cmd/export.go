package cmd

import (
	"fmt"

	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/internal/outwriter"
	"github.com/huangsam/docname/internal/parquet"
	"github.com/huangsam/docname/schema"
	"github.com/spf13/cobra"
)

// exportCmd exports the rename journal.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the rename journal for auditing and analytics",
	Long: `Export all applied renames from the journal.

The journal records every rename the run command applied: original path,
new path, content fingerprint, and when it happened. Nothing is recorded
during dry runs.

Output formats:
- text    - Human-readable table (default)
- csv     - Spreadsheet-friendly rows
- json    - Full records as indented JSON
- parquet - Columnar format for DuckDB, Spark, pandas (requires --output-file)

Use cases:
- Audit what a batch actually renamed
- Build an undo script from original/new path pairs
- Track renaming volume over time

Examples:
  # Show the journal as a table
  docname export

  # Export to CSV
  docname export --output csv --output-file renames.csv

  # Export to Parquet and query with DuckDB
  docname export --output parquet --output-file renames.parquet
  duckdb -c "SELECT * FROM read_parquet('renames.parquet') LIMIT 10"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, err := cacheManager.GetRenameJournal().List(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to read rename journal", err)
		}

		if cfg.Output == schema.ParquetOut {
			if cfg.OutputFile == "" {
				contract.LogFatal("Cannot export journal", fmt.Errorf("parquet output requires --output-file"))
			}
			if err := parquet.WriteJournalParquet(records, cfg.OutputFile); err != nil {
				contract.LogFatal("Failed to export journal", err)
			}
			fmt.Printf("Wrote %d journal records to %s\n", len(records), cfg.OutputFile)
			return
		}

		if err := outwriter.WriteJournalRecords(records, cfg); err != nil {
			contract.LogFatal("Failed to write journal output", err)
		}
	},
}
