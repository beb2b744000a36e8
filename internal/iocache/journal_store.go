package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/schema"
)

// journalTable is the name of the table for the applied-rename audit log.
const journalTable = "rename_journal"

// RenameJournalImpl implements the RenameJournal interface.
type RenameJournalImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RenameJournal = &RenameJournalImpl{} // Compile-time check

// NewRenameJournal creates a new RenameJournal with the specified backend.
// The journal shares the cache database; disabled caching disables it too.
func NewRenameJournal(backend schema.DatabaseBackend, sqlitePath, connStr string) (contract.RenameJournal, error) {
	if err := validateTableName(journalTable); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &RenameJournalImpl{db: nil, backend: backend}, nil
	}

	db, err := openBackendDB(backend, sqlitePath, connStr)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateJournalTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", journalTable, err)
	}

	return &RenameJournalImpl{db: db, backend: backend}, nil
}

// getCreateJournalTableQuery returns the CREATE TABLE query for the given backend.
// Rows are keyed by a UUID assigned in Go, which keeps the DDL identical
// across backends instead of juggling three auto-increment dialects.
func getCreateJournalTableQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(journalTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(36) PRIMARY KEY,
				fingerprint VARCHAR(64) NOT NULL,
				original_path TEXT NOT NULL,
				new_path TEXT NOT NULL,
				outcome VARCHAR(16) NOT NULL,
				applied_at BIGINT NOT NULL
			);
		`, quoted)

	default: // SQLite and PostgreSQL
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				fingerprint TEXT NOT NULL,
				original_path TEXT NOT NULL,
				new_path TEXT NOT NULL,
				outcome TEXT NOT NULL,
				applied_at BIGINT NOT NULL
			);
		`, quoted)
	}
}

// Record appends one applied rename to the journal. An empty ID or zero
// AppliedAt is filled in at write time.
func (js *RenameJournalImpl) Record(ctx context.Context, rec schema.JournalRecord) error {
	if js.backend == schema.NoneBackend || js.db == nil {
		return nil
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.AppliedAt.IsZero() {
		rec.AppliedAt = time.Now()
	}

	quoted := quoteTableName(journalTable, js.backend)
	query := rebind(fmt.Sprintf(`
		INSERT INTO %s (id, fingerprint, original_path, new_path, outcome, applied_at)
		VALUES (?, ?, ?, ?, ?, ?)`, quoted), js.backend)

	_, err := js.db.ExecContext(ctx, query,
		rec.ID, rec.Fingerprint, rec.OriginalPath, rec.NewPath, rec.Outcome, rec.AppliedAt.Unix())
	return err
}

// List returns all journal rows ordered by application time.
func (js *RenameJournalImpl) List(ctx context.Context) ([]schema.JournalRecord, error) {
	if js.backend == schema.NoneBackend || js.db == nil {
		return nil, nil
	}

	quoted := quoteTableName(journalTable, js.backend)
	query := fmt.Sprintf(`
		SELECT id, fingerprint, original_path, new_path, outcome, applied_at
		FROM %s ORDER BY applied_at, id`, quoted)

	rows, err := js.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.JournalRecord
	for rows.Next() {
		var rec schema.JournalRecord
		var appliedAt int64
		if err := rows.Scan(&rec.ID, &rec.Fingerprint, &rec.OriginalPath, &rec.NewPath, &rec.Outcome, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		rec.AppliedAt = time.Unix(appliedAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetStatus returns status information about the journal.
func (js *RenameJournalImpl) GetStatus(ctx context.Context) (schema.JournalStatus, error) {
	status := schema.JournalStatus{
		Backend:   string(js.backend),
		Connected: js.db != nil,
	}

	if js.backend == schema.NoneBackend || js.db == nil {
		return status, nil
	}

	quoted := quoteTableName(journalTable, js.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)
	if err := js.db.QueryRowContext(ctx, countQuery).Scan(&status.TotalRenames); err != nil {
		return status, fmt.Errorf("failed to get journal count: %w", err)
	}
	if status.TotalRenames == 0 {
		return status, nil
	}

	var lastTs, firstTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(applied_at), MIN(applied_at) FROM %s", quoted)
	if err := js.db.QueryRowContext(ctx, rangeQuery).Scan(&lastTs, &firstTs); err != nil {
		return status, fmt.Errorf("failed to get journal time range: %w", err)
	}
	status.LastRenameAt = time.Unix(lastTs, 0)
	status.FirstRenameAt = time.Unix(firstTs, 0)
	return status, nil
}

// Close closes the underlying DB connection.
func (js *RenameJournalImpl) Close() error {
	if js.db != nil {
		return js.db.Close()
	}
	return nil
}
