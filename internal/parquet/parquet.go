// Package parquet exports rename journal data to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/docname/schema"
	"github.com/parquet-go/parquet-go"
)

// JournalEntry represents a single applied rename in a Parquet-friendly shape.
// This struct maps to the rename_journal database table.
type JournalEntry struct {
	// ID is the unique identifier for this journal entry
	ID string `parquet:"id,snappy"`

	// Fingerprint is the content hash of the renamed document
	Fingerprint string `parquet:"fingerprint,snappy"`

	// OriginalPath is the document path before the rename
	OriginalPath string `parquet:"original_path,snappy"`

	// NewPath is the document path after the rename
	NewPath string `parquet:"new_path,snappy"`

	// Outcome is the recorded outcome label for this entry
	Outcome string `parquet:"outcome,snappy"`

	// AppliedAt is when the rename was applied (stored as TIMESTAMP with nanosecond precision)
	AppliedAt time.Time `parquet:"applied_at,snappy"`
}

// WriteJournalParquet writes journal records to a Parquet file.
func WriteJournalParquet(records []schema.JournalRecord, outputPath string) error {
	entries := make([]JournalEntry, len(records))
	for i, rec := range records {
		entries[i] = JournalEntry{
			ID:           rec.ID,
			Fingerprint:  rec.Fingerprint,
			OriginalPath: rec.OriginalPath,
			NewPath:      rec.NewPath,
			Outcome:      rec.Outcome,
			AppliedAt:    rec.AppliedAt,
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the JournalEntry struct tags
	writer := parquet.NewGenericWriter[JournalEntry](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(entries); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
