package patent2pdf

import (
	"context"
	"fmt"

	"github.com/taurus-ai/patent2pdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.Transliterator)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
)

// Converter runs the conversion pipeline: preprocess, convert Markdown to an
// HTML fragment, wrap it in a document, inline the stylesheet, print to PDF.
//
// The stylesheet is rendered once by NewConverter and shared by every
// conversion. A Converter owns one browser, launched on first use; it is not
// safe for concurrent use. Call Close when done.
type Converter struct {
	cfg           converterConfig
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	pdfConverter  pdfConverter

	css     string
	pdfOpts *pdfOptions
}

// NewConverter creates a Converter. Without options it uses the
// transliterate engine, DefaultStylesheet and a 30 second render timeout.
// Returns an error for an unknown engine, an invalid stylesheet or a font
// that cannot be found.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout: defaultTimeout,
			engine:  EngineTransliterate,
			title:   DefaultTitle,
		},
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		cssInjector:  &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	sheet := c.cfg.stylesheet
	if sheet == nil {
		sheet = DefaultStylesheet()
	}
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	css, err := sheet.CSS()
	if err != nil {
		return nil, fmt.Errorf("building stylesheet: %w", err)
	}
	c.css = css
	c.pdfOpts = newPDFOptions(sheet)

	if c.htmlConverter == nil {
		c.htmlConverter, err = c.newEngine()
		if err != nil {
			return nil, err
		}
	}

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

func (c *Converter) newEngine() (pipeline.HTMLConverter, error) {
	switch c.cfg.engine {
	case EngineTransliterate, "":
		var opts []pipeline.TransliteratorOption
		if c.cfg.anyOrderedMarker {
			opts = append(opts, pipeline.WithAnyOrderedMarker())
		}
		if c.cfg.blockTagParas {
			opts = append(opts, pipeline.WithBlockTagParagraphs())
		}
		return pipeline.NewTransliterator(opts...), nil
	case EngineGoldmark:
		return pipeline.NewGoldmarkConverter(), nil
	default:
		return nil, fmt.Errorf("%w: %q (must be %s or %s)", ErrUnknownEngine, c.cfg.engine, EngineTransliterate, EngineGoldmark)
	}
}

// Convert runs the full pipeline and returns the HTML document and the PDF.
// Empty Markdown yields a document with an empty body.
// If input.HTMLOnly is true, PDF generation is skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	md := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fragment, err := c.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTMLConversion, err)
	}

	fragment, err = pipeline.ResolveFigures(fragment, input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving figure paths: %w", err)
	}

	title := input.Title
	if title == "" {
		title = c.cfg.title
	}
	doc := pipeline.WrapDocument(title, fragment)

	doc = c.cssInjector.InjectCSS(ctx, doc, c.css)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &ConvertResult{HTML: []byte(doc)}
	if input.HTMLOnly {
		return res, nil
	}

	pdf, err := c.pdfConverter.ToPDF(ctx, doc, c.pdfOpts)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdf
	return res, nil
}

// CSS returns the rendered stylesheet inlined into every document.
func (c *Converter) CSS() string {
	return c.css
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}
