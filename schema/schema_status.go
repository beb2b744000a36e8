package schema

import "time"

// CacheStatus represents the status of the analysis cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	SchemaVersion   int       `json:"schema_version"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// JournalStatus represents the status of the rename journal.
type JournalStatus struct {
	Backend       string    `json:"backend"`
	Connected     bool      `json:"connected"`
	TotalRenames  int       `json:"total_renames"`
	LastRenameAt  time.Time `json:"last_rename_at"`
	FirstRenameAt time.Time `json:"first_rename_at"`
}
