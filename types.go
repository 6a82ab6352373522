package patent2pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/taurus-ai/patent2pdf/internal/pipeline"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 1.0
)

// Markdown engines.
const (
	// EngineTransliterate is the line-oriented substitution engine.
	EngineTransliterate = "transliterate"
	// EngineGoldmark is the CommonMark engine with GFM extensions.
	EngineGoldmark = "goldmark"
)

// DefaultTitle is the HTML <title> of converted documents.
const DefaultTitle = pipeline.DefaultDocumentTitle

// paperSizes holds portrait width and height in inches.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns US Letter, portrait, with 1 inch margins.
func DefaultPageSettings() PageSettings {
	return PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Does not mutate - uses case-insensitive comparison.
func (p PageSettings) Validate() error {
	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// Dimensions returns the paper width and height in inches, portrait.
// Landscape is applied by the renderer. Unknown sizes fall back to letter.
func (p PageSettings) Dimensions() (width, height float64) {
	dims, ok := paperSizes[strings.ToLower(p.Size)]
	if !ok {
		dims = paperSizes[PageSizeLetter]
	}
	return dims[0], dims[1]
}

// Landscape reports whether pages are printed in landscape orientation.
func (p PageSettings) Landscape() bool {
	return strings.EqualFold(p.Orientation, OrientationLandscape)
}

// Input contains conversion parameters.
type Input struct {
	Markdown  string // Markdown content, may be empty
	Title     string // HTML <title>, empty = converter default
	SourceDir string // directory relative <img> paths are resolved against
	HTMLOnly  bool   // skip PDF generation
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML []byte // complete HTML document with the stylesheet inlined
	PDF  []byte // nil when Input.HTMLOnly is set
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout          time.Duration
	stylesheet       *Stylesheet
	engine           string
	anyOrderedMarker bool
	blockTagParas    bool
	title            string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout bounds each PDF rendering.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("patent2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStylesheet replaces DefaultStylesheet.
func WithStylesheet(s *Stylesheet) Option {
	return func(c *Converter) {
		c.cfg.stylesheet = s
	}
}

// WithEngine selects the Markdown engine by name. NewConverter returns
// ErrUnknownEngine for names other than EngineTransliterate and
// EngineGoldmark.
func WithEngine(name string) Option {
	return func(c *Converter) {
		c.cfg.engine = name
	}
}

// WithAnyOrderedMarker makes the transliterator accept any integer as an
// ordered list marker instead of 1 through 5.
func WithAnyOrderedMarker() Option {
	return func(c *Converter) {
		c.cfg.anyOrderedMarker = true
	}
}

// WithBlockTagParagraphs makes the transliterator wrap a block in <p> unless
// it starts with a block-level tag, so blocks opening with inline markup
// become paragraphs.
func WithBlockTagParagraphs() Option {
	return func(c *Converter) {
		c.cfg.blockTagParas = true
	}
}

// WithTitle sets the default HTML <title>.
func WithTitle(title string) Option {
	return func(c *Converter) {
		c.cfg.title = title
	}
}
