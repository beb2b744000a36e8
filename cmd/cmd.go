// Package cmd defines the command-line interface for docname.
package cmd

import (
	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("execute", false, "Apply renames to disk (default is a dry run)")
	rootCmd.PersistentFlags().BoolP("recursive", "r", false, "Descend into subdirectories when collecting documents")
	rootCmd.PersistentFlags().Bool("receipt", false, "Use the receipt prompt and date_store_description filename format")
	rootCmd.PersistentFlags().Bool("no-image", false, "Skip page rendering and send text-only prompts")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable the analysis cache for this run")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print per-file progress to stderr")
	rootCmd.PersistentFlags().IntP("workers", "w", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("delay", contract.DefaultDelay.String(), "Pause before each model invocation (e.g. 500ms, 2s)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("save-log", "", "Optional path to write the full JSON run result to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-path", "", "SQLite database file path (sqlite backend only)")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().StringP("model", "m", contract.DefaultModel, "Model identifier sent with each request")
	rootCmd.PersistentFlags().String("base-url", contract.DefaultBaseURL, "OpenAI-compatible server base URL")
	rootCmd.PersistentFlags().String("api-key", "", "Bearer token for the model server (prefer the DOCNAME_API_KEY env var)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Per-request model timeout (e.g. 90s, 2m)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
