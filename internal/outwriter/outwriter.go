// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRun prints a batch run result using the configured output format.
func (ow *OutWriter) WriteRun(result *schema.RunResult, cfg *contract.Config) error {
	return WriteRunResult(result, cfg)
}

// WriteJournal prints rename journal rows using the configured output format.
func (ow *OutWriter) WriteJournal(records []schema.JournalRecord, cfg *contract.Config) error {
	return WriteJournalRecords(records, cfg)
}

// getMaxTablePathWidth calculates the maximum width for file paths in table
// output based on terminal width.
func getMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the outcome, target and cache columns plus table
	// borders, separators and padding
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable path width
		return 15
	}
	if available > 70 {
		// Maximum path width to prevent overly long paths
		return 70
	}
	return available
}
