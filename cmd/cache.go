package cmd

import (
	"fmt"

	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/internal/iocache"
	"github.com/huangsam/docname/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	sqlitePath := viper.GetString("cache-path")
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize stores with the loaded config
	if err := iocache.InitStores(backend, sqlitePath, connStr); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if cacheManager == nil {
		cacheManager = iocache.Manager
	}

	cfg.CacheBackend = backend
	cfg.CachePath = sqlitePath
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// sqliteCachePath returns the configured SQLite file path or the default.
func sqliteCachePath() string {
	if cfg.CachePath != "" {
		return cfg.CachePath
	}
	return iocache.GetDBFilePath()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the run command. This avoids model server
// validation for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the document analysis cache and rename journal",
	Long: `Manage the durable analysis cache that makes repeated runs free.

Docname stores every model analysis keyed by content fingerprint, so a
document is only ever sent to the model once, no matter how often it is
renamed, moved, or re-scanned into a batch.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache and journal statistics
  clear   - Remove all cached analyses and journal entries
  migrate - Run database schema migrations

Examples:
  # Check cache status
  docname cache status

  # Clear cache after changing prompt or model significantly
  docname cache clear`,
}

// cacheStatusCmd shows cache and journal status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache and journal statistics and connection details",
	Long: `Show detailed information about the analysis cache and rename journal.

Displays:
- Backend type and connection status
- Total number of cached analyses
- Last and oldest cache entry timestamps
- Cache table size
- Total applied renames with first/last timestamps

Examples:
  # Check cache status
  docname cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		cacheStatus, err := cacheManager.GetAnalysisCache().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(cacheStatus)

		journalStatus, err := cacheManager.GetRenameJournal().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get journal status", err)
		}
		iocache.PrintJournalStatus(journalStatus)
	},
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached analyses and journal entries",
	Long: `Delete all cached analyses and journal entries from the configured backend.

Use this when:
- The model or prompt changed enough that old analyses are misleading
- Cache may be stale or corrupted
- Testing behavior without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache and journal tables

Examples:
  # Clear SQLite cache (default)
  docname cache clear

  # Clear MySQL cache (set connection string via env variable)
  DOCNAME_CACHE_BACKEND=mysql DOCNAME_CACHE_DB_CONNECT="..." docname cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, sqliteCachePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheMigrateCmd runs database migrations for the cache store.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the cache and journal stores.

Migrations allow:
- Upgrading to new schema versions when Docname is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  docname cache migrate

  # Migrate to specific version
  docname cache migrate --target-version 2

  # Rollback to initial state
  docname cache migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Migration opens its own connection, so skip store initialization
		// and only load config.
		return loadConfigFile()
	},
	Run: func(_ *cobra.Command, _ []string) {
		backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
		sqlitePath := viper.GetString("cache-path")
		connStr := viper.GetString("cache-db-connect")
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateCache(backend, sqlitePath, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
