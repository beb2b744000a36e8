// Package schema has configs, models and global variables for all parts of docname.
package schema

import "time"

// DocumentMetadata represents the structured fields extracted from a single
// document by the vision model. All fields are best-effort: a field the model
// could not determine is left empty rather than treated as an error.
type DocumentMetadata struct {
	Date        string `json:"date"`        // Normalized YYYY-MM-DD, or empty if not visible
	Description string `json:"description"` // Short free-text description of the document
	DocID       string `json:"doc_id"`      // Invoice/reference/policy number, or empty
	Store       string `json:"store"`       // Merchant name, receipt mode only
}

// IsZero reports whether no field was extracted at all.
func (m DocumentMetadata) IsZero() bool {
	return m.Date == "" && m.Description == "" && m.DocID == "" && m.Store == ""
}

// CacheEntry is one row of the analysis cache, keyed by content fingerprint.
// Entries are immutable after the first write except for SourcePathHint,
// which tracks the most recent location the content was seen at.
type CacheEntry struct {
	Fingerprint    string           `json:"fingerprint"`      // SHA-256 hex digest of file content
	Metadata       DocumentMetadata `json:"metadata"`         // Parsed fields
	RawResponse    string           `json:"raw_response"`     // Verbatim model output, kept for reparsing
	ModelID        string           `json:"model_id"`         // Model that produced the analysis
	SchemaVersion  int              `json:"schema_version"`   // Cache layout version at write time
	CreatedAt      time.Time        `json:"created_at"`       // First write time
	SourcePathHint string           `json:"source_path_hint"` // Last known path of the content
}

// RenameRecord captures the outcome of processing a single file in a batch.
type RenameRecord struct {
	SourcePath  string        `json:"source_path"`
	Fingerprint string        `json:"fingerprint"`
	Outcome     Outcome       `json:"outcome"`
	TargetName  string        `json:"target_name,omitempty"` // Derived filename, empty on failure
	Error       string        `json:"error,omitempty"`       // Failure reason, empty on success
	FromCache   bool          `json:"from_cache"`            // Metadata came from the cache
	Duration    time.Duration `json:"duration"`              // Wall time spent on this file
}

// RunStats aggregates per-file outcomes for a batch run. Counters are plain
// ints here; concurrent accumulation happens in core.StatsCollector.
type RunStats struct {
	Processed int `json:"processed"`
	Renamed   int `json:"renamed"`
	Skipped   int `json:"skipped"`
	CacheHits int `json:"cache_hits"`
	Failed    int `json:"failed"`
}

// HitRate returns the fraction of processed files served from the cache.
// CacheHits counts every record with FromCache set, including files that
// still needed a rename on disk.
func (s RunStats) HitRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.Processed)
}

// RunResult is the full outcome of a batch run, suitable for JSON export.
type RunResult struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	DryRun     bool           `json:"dry_run"`
	Model      string         `json:"model"`
	Records    []RenameRecord `json:"records"`
	Stats      RunStats       `json:"stats"`
}

// JournalRecord represents a row from the rename_journal table. The journal
// only grows in execute mode; dry runs leave no trace.
type JournalRecord struct {
	ID           string    `json:"id"` // UUID assigned at write time
	Fingerprint  string    `json:"fingerprint"`
	OriginalPath string    `json:"original_path"`
	NewPath      string    `json:"new_path"`
	Outcome      string    `json:"outcome"`
	AppliedAt    time.Time `json:"applied_at"`
}
