// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/docname/schema"
)

// Rasterizer converts a document into a single page image for model input.
// This allows the core pipeline to be tested without poppler installed.
type Rasterizer interface {
	// RenderFirstPage returns the first page of the document at path as a
	// base64-encoded PNG. Plain image files are passed through unconverted.
	RenderFirstPage(ctx context.Context, path string) (string, error)
}

// VisionModel defines the operations needed from a vision-capable LLM.
// This allows the core pipeline to be tested without a running model server.
type VisionModel interface {
	// Analyze sends one document image plus a prompt to the model and
	// returns the raw text of the model's reply.
	Analyze(ctx context.Context, req AnalysisRequest) (string, error)

	// Ping verifies that the model server is reachable.
	Ping(ctx context.Context) error

	// ModelID returns the identifier of the configured model, recorded
	// alongside every cache entry it produces.
	ModelID() string
}

// AnalysisRequest carries the inputs for a single model invocation.
type AnalysisRequest struct {
	ImageBase64 string // Base64 PNG of the document's first page; empty in no-image mode
	Filename    string // Original filename, offered to the model as a hint
	Receipt     bool   // Use the receipt prompt instead of the generic one
}

// CacheManager defines the interface for managing persistence stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetAnalysisCache() AnalysisCache
	GetRenameJournal() RenameJournal
}

// AnalysisCache defines the interface for the durable analysis store.
// This allows mocking the store for testing.
type AnalysisCache interface {
	// Lookup returns the entry for a fingerprint. The bool is false on miss.
	Lookup(ctx context.Context, fingerprint string) (schema.CacheEntry, bool, error)

	// Store persists an entry with first-writer-wins semantics: if a row for
	// the fingerprint already exists, the write is silently dropped.
	Store(ctx context.Context, entry schema.CacheEntry) error

	// RefreshPathHint updates the source path hint of an existing entry.
	// The hint is the only mutable field of a cache row.
	RefreshPathHint(ctx context.Context, fingerprint, path string) error

	// Delete removes an entry, used when a row written under an older
	// schema version must be replaced.
	Delete(ctx context.Context, fingerprint string) error

	// GetStatus returns status information about the cache store.
	GetStatus(ctx context.Context) (schema.CacheStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// RenameJournal defines the interface for the applied-rename audit log.
type RenameJournal interface {
	// Record appends one applied rename. Only execute mode writes here.
	Record(ctx context.Context, rec schema.JournalRecord) error

	// List returns all journal rows ordered by application time.
	List(ctx context.Context) ([]schema.JournalRecord, error)

	// GetStatus returns status information about the journal.
	GetStatus(ctx context.Context) (schema.JournalStatus, error)

	// Close closes the underlying connection.
	Close() error
}
