package main

import (
	"context"
	"errors"
	"os"

	"github.com/taurus-ai/patent2pdf"
	"github.com/taurus-ai/patent2pdf/internal/config"
)

// Exit codes for the patent2pdf CLI.
// Per-document failures are reported in the summary and do not change the
// exit status; only setup errors and interruption do.
const (
	ExitSuccess = 0 // Batch ran to completion
	ExitGeneral = 1 // Interrupted or unexpected error
	ExitUsage   = 2 // Invalid flags, config, or stylesheet
	ExitIO      = 3 // Config file unreadable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return ExitGeneral
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, patent2pdf.ErrUnknownEngine) ||
		errors.Is(err, patent2pdf.ErrInvalidPageSize) ||
		errors.Is(err, patent2pdf.ErrInvalidOrientation) ||
		errors.Is(err, patent2pdf.ErrInvalidMargin) ||
		errors.Is(err, patent2pdf.ErrInvalidStylesheet) ||
		errors.Is(err, patent2pdf.ErrFontNotFound) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnexpectedArgs) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
