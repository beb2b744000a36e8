package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteJournalRecords outputs rename journal rows, dispatching based on the
// output format configured. Parquet export has its own writer.
func WriteJournalRecords(records []schema.JournalRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeJournalCSV(records, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJournalTable(records, cfg, w)
		}, "Wrote table")
	}
}

// writeJournalCSV handles opening the file and calling the CSV writer.
func writeJournalCSV(records []schema.JournalRecord, cfg *contract.Config) error {
	header := []string{"id", "fingerprint", "original_path", "new_path", "outcome", "applied_at"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, rec := range records {
				row := []string{
					rec.ID,
					rec.Fingerprint,
					rec.OriginalPath,
					rec.NewPath,
					rec.Outcome,
					rec.AppliedAt.Format(contract.DateTimeFormat),
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeJournalTable generates and writes the human-readable table.
func writeJournalTable(records []schema.JournalRecord, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Applied", "Original", "New", "Outcome"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxPathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for _, rec := range records {
		data = append(data, []string{
			rec.AppliedAt.Format("2006-01-02 15:04:05"),
			contract.TruncatePath(rec.OriginalPath, maxPathWidth),
			contract.TruncatePath(rec.NewPath, maxPathWidth),
			rec.Outcome,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Showing %d applied renames\n", len(records))
	return err
}
