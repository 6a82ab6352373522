package patent2pdf

import (
	"errors"

	"github.com/taurus-ai/patent2pdf/internal/fontconf"
)

// Sentinel errors for library operations.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Converter setup errors.
	ErrUnknownEngine = errors.New("unknown markdown engine")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Stylesheet errors.
	ErrInvalidStylesheet = errors.New("invalid stylesheet")
	ErrFontNotFound      = fontconf.ErrFontNotFound
)
