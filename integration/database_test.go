//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/docname/internal/iocache"
	"github.com/huangsam/docname/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL container and returns its connection string.
func startMySQL(t *testing.T, ctx context.Context) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "docname",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/docname?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(t *testing.T, ctx context.Context) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	time.Sleep(5 * time.Second)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
}

// exerciseStores runs the cache and journal through their full lifecycle
// against a live database backend.
func exerciseStores(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	ctx := context.Background()

	cache, err := iocache.NewAnalysisCache(backend, "", connStr)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	journal, err := iocache.NewRenameJournal(backend, "", connStr)
	require.NoError(t, err)
	defer func() { _ = journal.Close() }()

	entry := schema.CacheEntry{
		Fingerprint: "integration-fp-1",
		Metadata: schema.DocumentMetadata{
			Date:        "2024-05-12",
			Description: "Electric Bill",
			DocID:       "ACC-9983",
		},
		RawResponse:    "Date: 2024-05-12\nDescription: Electric Bill\nID: ACC-9983",
		ModelID:        "integration-model",
		SchemaVersion:  iocache.CurrentSchemaVersion,
		CreatedAt:      time.Now(),
		SourcePathHint: "/docs/scan0001.png",
	}
	require.NoError(t, cache.Store(ctx, entry))

	got, found, err := cache.Lookup(ctx, entry.Fingerprint)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entry.Metadata.Description, got.Metadata.Description)

	// First writer wins: a second store for the same fingerprint is dropped
	dupe := entry
	dupe.Metadata.Description = "Something Else"
	require.NoError(t, cache.Store(ctx, dupe))
	got, found, err = cache.Lookup(ctx, entry.Fingerprint)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entry.Metadata.Description, got.Metadata.Description)

	require.NoError(t, cache.RefreshPathHint(ctx, entry.Fingerprint, "/docs/moved.png"))
	got, _, err = cache.Lookup(ctx, entry.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, "/docs/moved.png", got.SourcePathHint)

	status, err := cache.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalEntries)

	require.NoError(t, journal.Record(ctx, schema.JournalRecord{
		Fingerprint:  entry.Fingerprint,
		OriginalPath: "/docs/scan0001.png",
		NewPath:      "/docs/2024-05-12_Electric_Bill_ACC-9983.png",
		Outcome:      string(schema.OutcomeRenamed),
	}))

	records, err := journal.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, "/docs/2024-05-12_Electric_Bill_ACC-9983.png", records[0].NewPath)

	require.NoError(t, cache.Delete(ctx, entry.Fingerprint))
	_, found, err = cache.Lookup(ctx, entry.Fingerprint)
	require.NoError(t, err)
	assert.False(t, found)
}

// runCacheCommands checks the CLI cache commands against the backend.
func runCacheCommands(t *testing.T, backend string, connStr string) {
	env := []string{
		"DOCNAME_CACHE_BACKEND=" + backend,
		"DOCNAME_CACHE_DB_CONNECT=" + connStr,
	}

	output, err := runDocnameCommand(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Cache Backend: "+backend)

	_, err = runDocnameCommand(t, env, "cache", "clear")
	require.NoError(t, err)
}

// TestDocnameWithMySQL tests the cache stores and CLI with a MySQL backend.
func TestDocnameWithMySQL(t *testing.T) {
	ctx := context.Background()
	connStr := startMySQL(t, ctx)

	exerciseStores(t, schema.MySQLBackend, connStr)
	runCacheCommands(t, "mysql", connStr)
}

// TestDocnameWithPostgres tests the cache stores and CLI with a PostgreSQL backend.
func TestDocnameWithPostgres(t *testing.T) {
	ctx := context.Background()
	connStr := startPostgres(t, ctx)

	exerciseStores(t, schema.PostgreSQLBackend, connStr)
	runCacheCommands(t, "postgresql", connStr)
}
