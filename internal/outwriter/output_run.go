package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRunLog saves the full run result as indented JSON to path, used by
// the save-log flag for post-run auditing.
func WriteRunLog(result *schema.RunResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create run log %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return writeJSON(f, result)
}

// WriteRunResult outputs a batch run, dispatching based on the output format configured.
func WriteRunResult(result *schema.RunResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeRunJSON(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeRunCSV(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(result, cfg, w)
		}, "Wrote table")
	}
	return nil
}

// writeRunJSON handles opening the file and encoding the full result.
func writeRunJSON(result *schema.RunResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// writeRunCSV handles opening the file and calling the CSV writer.
func writeRunCSV(result *schema.RunResult, cfg *contract.Config) error {
	header := []string{"source", "fingerprint", "outcome", "target", "from_cache", "duration_ms", "error"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, rec := range result.Records {
				row := []string{
					rec.SourcePath,
					rec.Fingerprint,
					string(rec.Outcome),
					rec.TargetName,
					strconv.FormatBool(rec.FromCache),
					strconv.FormatInt(rec.Duration.Milliseconds(), 10),
					rec.Error,
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeRunTable generates and writes the human-readable table plus summary.
func writeRunTable(result *schema.RunResult, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Outcome", "Path", "Target", "Cache", "Time"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxPathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for _, rec := range result.Records {
		label := contract.GetPlainLabel(rec.Outcome)
		if cfg.UseColors {
			label = contract.GetColorLabel(rec.Outcome)
		}
		target := rec.TargetName
		if rec.Outcome == schema.OutcomeFailed {
			target = rec.Error
		}
		cacheMark := ""
		if rec.FromCache {
			cacheMark = "yes"
		}
		data = append(data, []string{
			label,
			contract.TruncatePath(rec.SourcePath, maxPathWidth),
			contract.TruncatePath(target, maxPathWidth),
			cacheMark,
			rec.Duration.Round(time.Millisecond).String(),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	stats := result.Stats
	if _, err := fmt.Fprintf(writer, "Processed %d files: %d renamed, %d skipped, %d failed (cache hit rate %.0f%%)\n",
		stats.Processed, stats.Renamed, stats.Skipped, stats.Failed, stats.HitRate()*100); err != nil {
		return err
	}
	duration := result.FinishedAt.Sub(result.StartedAt)
	if _, err := fmt.Fprintf(writer, "Run completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	if result.DryRun {
		if _, err := fmt.Fprintln(writer, "Dry run: no files were changed. Re-run with --execute to apply."); err != nil {
			return err
		}
	}
	return nil
}
