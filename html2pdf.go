package patent2pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/taurus-ai/patent2pdf/internal/fileutil"
	"github.com/taurus-ai/patent2pdf/internal/process"
)

// pdfConverter turns a complete HTML document into PDF bytes.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer renders an HTML file to PDF; mocked in tests.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// pdfOptions holds print settings derived from the Stylesheet.
type pdfOptions struct {
	Page           PageSettings
	HeaderTemplate string // empty = no running header
	FooterTemplate string // empty = no running footer
}

// newPDFOptions derives print settings from s.
func newPDFOptions(s *Stylesheet) *pdfOptions {
	return &pdfOptions{
		Page:           s.Page,
		HeaderTemplate: s.headerTemplate(),
		FooterTemplate: s.footerTemplate(),
	}
}

// emptyTemplate hides Chrome's default header or footer.
const emptyTemplate = "<span></span>"

// rodRenderer implements pdfRenderer using go-rod.
// Rod downloads Chromium on first run when no browser is found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

// newRodRenderer creates a rodRenderer with the given page load timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker, CI).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// The Chrome sandbox is unavailable in most containers.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Cleanup()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close closes the browser and kills what is left of its process group.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: fileURL(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Bind every page operation to ctx so an interrupt stops printing too.
	page = page.Context(ctx)

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdf, nil
}

// buildPDFOptions maps print settings onto Chrome's Page.printToPDF.
// A nil opts prints with DefaultStylesheet geometry and no margin boxes.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	if opts == nil {
		opts = &pdfOptions{Page: DefaultPageSettings()}
	}
	width, height := opts.Page.Dimensions()
	margin := opts.Page.Margin

	req := &proto.PagePrintToPDF{
		Landscape:               opts.Page.Landscape(),
		PaperWidth:              floatPtr(width),
		PaperHeight:             floatPtr(height),
		MarginTop:               floatPtr(margin),
		MarginBottom:            floatPtr(margin),
		MarginLeft:              floatPtr(margin),
		MarginRight:             floatPtr(margin),
		PrintBackground:         true,
		GenerateDocumentOutline: true,
	}

	if opts.HeaderTemplate != "" || opts.FooterTemplate != "" {
		req.DisplayHeaderFooter = true
		req.HeaderTemplate = orEmpty(opts.HeaderTemplate)
		req.FooterTemplate = orEmpty(opts.FooterTemplate)
	}

	return req
}

func orEmpty(template string) string {
	if template == "" {
		return emptyTemplate
	}
	return template
}

// fileURL builds the URL Chrome loads a local file from.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if len(p) > 0 && p[0] != '/' {
		p = "/" + p // Windows drive letter
	}
	return "file://" + p
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter writes HTML to a temporary file and renders it.
type rodConverter struct {
	renderer pdfRenderer
}

// newRodConverter creates a rodConverter with the production renderer.
func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(timeout),
	}
}

// ToPDF converts an HTML document to PDF bytes using headless Chrome.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
