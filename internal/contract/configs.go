package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/docname/schema"
)

// Default values for configuration.
const (
	DefaultWorkers = 4
	MaxWorkers     = 32
	DefaultDelay   = 500 * time.Millisecond
	DefaultTimeout = 2 * time.Minute
)

// Default model settings for a local OpenAI-compatible server.
const (
	DefaultModel   = "qwen2.5-vl-3b-instruct"
	DefaultBaseURL = "http://localhost:8080/v1"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a batch run.
// This struct remains the "final, validated" config.
type Config struct {
	InputPaths []string // Files or directories to process
	Execute    bool     // Apply renames; false means dry-run
	Recursive  bool     // Descend into subdirectories
	Receipt    bool     // Receipt prompt and filename format
	NoImage    bool     // Skip rasterization, text-only prompt
	Verbose    bool     // Per-file progress to stderr

	Workers int           // Concurrent pipeline workers
	Delay   time.Duration // Pause before each model invocation

	Output     schema.OutputMode // Record output format
	OutputFile string            // Optional path to write record output to
	SaveLog    string            // Optional path for the JSON run result
	Width      int               // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CachePath      string // SQLite database file, sqlite backend only
	CacheDBConnect string // Please use env var as this is plaintext

	Model   string        // Model identifier sent with each request
	BaseURL string        // OpenAI-compatible server base URL
	APIKey  string        // Bearer token, may be empty for local servers
	Timeout time.Duration // Per-request model timeout

	UseColors bool // Enable colored outcome labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPaths []string

	Execute   bool   `mapstructure:"execute"`
	Recursive bool   `mapstructure:"recursive"`
	Receipt   bool   `mapstructure:"receipt"`
	NoImage   bool   `mapstructure:"no-image"`
	NoCache   bool   `mapstructure:"no-cache"`
	Verbose   bool   `mapstructure:"verbose"`
	Workers   int    `mapstructure:"workers"`
	Delay     string `mapstructure:"delay"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	SaveLog    string `mapstructure:"save-log"`
	Width      int    `mapstructure:"width"`

	CacheBackend   string `mapstructure:"cache-backend"`
	CachePath      string `mapstructure:"cache-path"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`

	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base-url"`
	APIKey  string `mapstructure:"api-key"`
	Timeout string `mapstructure:"timeout"`

	Color string `mapstructure:"color"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.InputPaths != nil {
		clone.InputPaths = make([]string, len(c.InputPaths))
		copy(clone.InputPaths, c.InputPaths)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := validateModelConfig(cfg, input); err != nil {
		return err
	}
	if err := resolveInputPaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Execute = input.Execute
	cfg.Recursive = input.Recursive
	cfg.Receipt = input.Receipt
	cfg.NoImage = input.NoImage
	cfg.Verbose = input.Verbose
	cfg.OutputFile = input.OutputFile
	cfg.SaveLog = input.SaveLog
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Delay Validation ---
	cfg.Delay = DefaultDelay
	if input.Delay != "" {
		d, err := time.ParseDuration(input.Delay)
		if err != nil {
			return fmt.Errorf("invalid delay '%s'. Expected a Go duration like 500ms or 2s: %w", input.Delay, err)
		}
		if d < 0 {
			return fmt.Errorf("delay cannot be negative (received %s)", d)
		}
		cfg.Delay = d
	}

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	return nil
}

// validateBackendConfig validates the cache backend configuration.
// --no-cache overrides whatever backend was configured.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	if input.NoCache {
		cfg.CacheBackend = schema.NoneBackend
		return nil
	}

	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}

	cfg.CachePath = input.CachePath
	if cfg.CachePath != "" && cfg.CacheBackend != schema.SQLiteBackend {
		return fmt.Errorf("cache-path only applies to the sqlite backend (backend is %s)", cfg.CacheBackend)
	}

	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// validateModelConfig validates model server settings.
func validateModelConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Model = strings.TrimSpace(input.Model)
	if cfg.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(input.BaseURL), "/")
	if cfg.BaseURL == "" {
		return fmt.Errorf("base-url cannot be empty")
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("base-url must start with http:// or https:// (received %s)", cfg.BaseURL)
	}

	cfg.APIKey = input.APIKey

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s'. Expected a Go duration like 90s or 2m: %w", input.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", d)
		}
		cfg.Timeout = d
	}

	return nil
}

// resolveInputPaths makes input paths absolute and verifies they exist.
func resolveInputPaths(cfg *Config, input *ConfigRawInput) error {
	paths := input.InputPaths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg.InputPaths = make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("cannot resolve path %q: %w", p, err)
		}
		abs = filepath.Clean(abs)
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("input path does not exist: %s", abs)
		}
		cfg.InputPaths = append(cfg.InputPaths, abs)
	}
	return nil
}
