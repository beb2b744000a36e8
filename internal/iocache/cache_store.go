// Package iocache is for durable analysis caching and rename journaling.
package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// CurrentSchemaVersion is the cache layout version written with every entry.
// Entries carrying another version are treated as misses and rewritten.
const CurrentSchemaVersion = 1

// analysisTable is the name of the table for document analysis caching.
const analysisTable = "doc_analysis"

// AnalysisCacheImpl handles durable storage of document analyses using
// various database backends.
type AnalysisCacheImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.AnalysisCache = &AnalysisCacheImpl{} // Compile-time check

// openBackendDB opens and pings a database handle for the given backend.
// SQLite handles are limited to a single connection and switched to WAL so
// concurrent workers do not trip "database is locked" errors.
func openBackendDB(backend schema.DatabaseBackend, sqlitePath, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := sqlitePath
		if dbPath == "" {
			dbPath = contract.GetCacheDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL"} {
			if _, err := db.Exec(pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	return db, nil
}

// NewAnalysisCache initializes and returns a new AnalysisCache based on the backend type.
func NewAnalysisCache(backend schema.DatabaseBackend, sqlitePath, connStr string) (contract.AnalysisCache, error) {
	if err := validateTableName(analysisTable); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// No-op store for disabled caching
		return &AnalysisCacheImpl{db: nil, backend: backend}, nil
	}

	db, err := openBackendDB(backend, sqlitePath, connStr)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateAnalysisTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", analysisTable, err)
	}

	return &AnalysisCacheImpl{
		db:      db,
		backend: backend,
		connStr: connStr,
	}, nil
}

// getCreateAnalysisTableQuery returns the CREATE TABLE query for the given backend.
func getCreateAnalysisTableQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(analysisTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fingerprint VARCHAR(64) PRIMARY KEY,
				doc_date VARCHAR(10) NOT NULL,
				description TEXT NOT NULL,
				doc_id VARCHAR(64) NOT NULL,
				store_name VARCHAR(128) NOT NULL,
				raw_response TEXT NOT NULL,
				model_id VARCHAR(128) NOT NULL,
				schema_version INT NOT NULL,
				created_at BIGINT NOT NULL,
				source_path_hint TEXT NOT NULL
			);
		`, quoted)

	default: // SQLite and PostgreSQL
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fingerprint TEXT PRIMARY KEY,
				doc_date TEXT NOT NULL,
				description TEXT NOT NULL,
				doc_id TEXT NOT NULL,
				store_name TEXT NOT NULL,
				raw_response TEXT NOT NULL,
				model_id TEXT NOT NULL,
				schema_version INTEGER NOT NULL,
				created_at BIGINT NOT NULL,
				source_path_hint TEXT NOT NULL
			);
		`, quoted)
	}
}

// Lookup retrieves an entry by fingerprint. The bool result is false on miss.
func (ps *AnalysisCacheImpl) Lookup(ctx context.Context, fingerprint string) (schema.CacheEntry, bool, error) {
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return schema.CacheEntry{}, false, nil
	}

	quoted := quoteTableName(analysisTable, ps.backend)
	query := rebind(fmt.Sprintf(`
		SELECT fingerprint, doc_date, description, doc_id, store_name,
			raw_response, model_id, schema_version, created_at, source_path_hint
		FROM %s WHERE fingerprint = ?`, quoted), ps.backend)

	var entry schema.CacheEntry
	var createdAt int64
	row := ps.db.QueryRowContext(ctx, query, fingerprint)
	err := row.Scan(
		&entry.Fingerprint,
		&entry.Metadata.Date,
		&entry.Metadata.Description,
		&entry.Metadata.DocID,
		&entry.Metadata.Store,
		&entry.RawResponse,
		&entry.ModelID,
		&entry.SchemaVersion,
		&createdAt,
		&entry.SourcePathHint,
	)
	if err == sql.ErrNoRows {
		return schema.CacheEntry{}, false, nil
	}
	if err != nil {
		return schema.CacheEntry{}, false, err
	}
	entry.CreatedAt = time.Unix(createdAt, 0)
	return entry, true, nil
}

// Store persists an entry with first-writer-wins semantics: when a row for
// the fingerprint already exists, the insert is silently dropped and the
// existing row stays authoritative.
func (ps *AnalysisCacheImpl) Store(ctx context.Context, entry schema.CacheEntry) error {
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return nil
	}

	_, err := ps.db.ExecContext(ctx, ps.getInsertQuery(),
		entry.Fingerprint,
		entry.Metadata.Date,
		entry.Metadata.Description,
		entry.Metadata.DocID,
		entry.Metadata.Store,
		entry.RawResponse,
		entry.ModelID,
		entry.SchemaVersion,
		entry.CreatedAt.Unix(),
		entry.SourcePathHint,
	)
	return err
}

// getInsertQuery returns the insert-if-absent query for the backend.
func (ps *AnalysisCacheImpl) getInsertQuery() string {
	quoted := quoteTableName(analysisTable, ps.backend)
	columns := `(fingerprint, doc_date, description, doc_id, store_name,
		raw_response, model_id, schema_version, created_at, source_path_hint)`
	values := "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	switch ps.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("INSERT IGNORE INTO %s %s %s", quoted, columns, values)

	case schema.PostgreSQLBackend:
		return rebind(fmt.Sprintf("INSERT INTO %s %s %s ON CONFLICT (fingerprint) DO NOTHING", quoted, columns, values), ps.backend)

	default: // SQLite
		return fmt.Sprintf("INSERT OR IGNORE INTO %s %s %s", quoted, columns, values)
	}
}

// RefreshPathHint updates the source path hint of an existing entry. The
// hint is the only mutable field of a cache row; updating a missing row is
// not an error.
func (ps *AnalysisCacheImpl) RefreshPathHint(ctx context.Context, fingerprint, path string) error {
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return nil
	}

	quoted := quoteTableName(analysisTable, ps.backend)
	query := rebind(fmt.Sprintf("UPDATE %s SET source_path_hint = ? WHERE fingerprint = ?", quoted), ps.backend)
	_, err := ps.db.ExecContext(ctx, query, path, fingerprint)
	return err
}

// Delete removes an entry by fingerprint.
func (ps *AnalysisCacheImpl) Delete(ctx context.Context, fingerprint string) error {
	if ps.backend == schema.NoneBackend || ps.db == nil {
		return nil
	}

	quoted := quoteTableName(analysisTable, ps.backend)
	query := rebind(fmt.Sprintf("DELETE FROM %s WHERE fingerprint = ?", quoted), ps.backend)
	_, err := ps.db.ExecContext(ctx, query, fingerprint)
	return err
}

// Close closes the underlying DB connection.
func (ps *AnalysisCacheImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus returns status information about the cache store.
func (ps *AnalysisCacheImpl) GetStatus(ctx context.Context) (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:       string(ps.backend),
		Connected:     ps.db != nil,
		SchemaVersion: CurrentSchemaVersion,
	}

	if ps.backend == schema.NoneBackend || ps.db == nil {
		return status, nil
	}

	quoted := quoteTableName(analysisTable, ps.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)
	if err := ps.db.QueryRowContext(ctx, countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	lastQuery := fmt.Sprintf("SELECT MAX(created_at), MIN(created_at) FROM %s", quoted)
	if err := ps.db.QueryRowContext(ctx, lastQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry time range: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	status.TableSizeBytes = ps.estimateTableSize(ctx, status.TotalEntries)
	return status, nil
}

// estimateTableSize returns the approximate on-disk size of the cache table.
func (ps *AnalysisCacheImpl) estimateTableSize(ctx context.Context, totalEntries int) int64 {
	// Fallback rough estimate if the backend-specific query fails
	fallback := int64(totalEntries) * 1000

	switch ps.backend {
	case schema.SQLiteBackend:
		var size int64
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := ps.db.QueryRowContext(ctx, sizeQuery).Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		var size int64
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := ps.db.QueryRowContext(ctx, sizeQuery, cfg.DBName, analysisTable).Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.PostgreSQLBackend:
		var size int64
		if err := ps.db.QueryRowContext(ctx, "SELECT pg_total_relation_size($1)", analysisTable).Scan(&size); err != nil {
			return fallback
		}
		return size

	default:
		return fallback
	}
}
