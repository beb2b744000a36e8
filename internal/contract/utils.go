package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/docname/schema"
)

// Color variables for console output.
var (
	RenamedColor  = color.New(color.FgGreen, color.Bold) // renamedColor marks an applied or planned rename.
	CacheHitColor = color.New(color.FgCyan)              // cacheHitColor marks a file served entirely from cache.
	SkippedColor  = color.New(color.FgYellow)            // skippedColor marks a file that already has its final name.
	FailedColor   = color.New(color.FgRed, color.Bold)   // failedColor marks a per-file failure.
)

// GetPlainLabel returns a plain text label for a per-file outcome. This is
// the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(outcome schema.Outcome) string {
	switch outcome {
	case schema.OutcomeRenamed:
		return "Renamed"
	case schema.OutcomeCacheHit:
		return "Cached"
	case schema.OutcomeSkipped:
		return "Skipped"
	default:
		return "Failed"
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(outcome schema.Outcome) string {
	text := GetPlainLabel(outcome)

	switch outcome {
	case schema.OutcomeRenamed:
		return RenamedColor.Sprint(text)
	case schema.OutcomeCacheHit:
		return CacheHitColor.Sprint(text)
	case schema.OutcomeSkipped:
		return SkippedColor.Sprint(text)
	default:
		return FailedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout on an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".docname_cache.db"
	}
	return filepath.Join(homeDir, ".docname_cache.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
// Without this check, small maxWidth values could cause slice bounds errors in the truncation calculation.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
