package patent2pdf

// Notes:
// - Pipeline stages are replaced through unexported options so the tests
//   never launch Chrome; real rendering is covered by the integration tests.
// - The default engine and stylesheet are exercised end to end with
//   HTMLOnly and a mock PDF converter.

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/taurus-ai/patent2pdf/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockHTMLConverter struct {
	Result     string
	Err        error
	CalledWith string
}

func (m *mockHTMLConverter) ToHTML(ctx context.Context, content string) (string, error) {
	m.CalledWith = content
	return m.Result, m.Err
}

type mockPDFConverter struct {
	Result     []byte
	Err        error
	CalledWith string
	CalledOpts *pdfOptions
	Closed     bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	m.CalledWith = htmlContent
	m.CalledOpts = opts
	return m.Result, m.Err
}

func (m *mockPDFConverter) Close() error {
	m.Closed = true
	return nil
}

type panicPreprocessor struct{}

func (p *panicPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	panic("unexpected state")
}

func withHTMLConverter(c pipeline.HTMLConverter) Option {
	return func(conv *Converter) { conv.htmlConverter = c }
}

func withPreprocessor(p pipeline.MarkdownPreprocessor) Option {
	return func(conv *Converter) { conv.preprocessor = p }
}

func withPDFConverter(c pdfConverter) Option {
	return func(conv *Converter) { conv.pdfConverter = c }
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	conv, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

// ---------------------------------------------------------------------------
// TestNewConverter - construction and options
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults"},
		{name: "goldmark engine", opts: []Option{WithEngine(EngineGoldmark)}},
		{name: "unknown engine", opts: []Option{WithEngine("pandoc")}, wantErr: ErrUnknownEngine},
		{
			name:    "invalid page size",
			opts:    []Option{WithStylesheet(&Stylesheet{Page: PageSettings{Size: "tabloid", Orientation: "portrait", Margin: 1}})},
			wantErr: ErrInvalidPageSize,
		},
		{
			name: "invalid extra CSS",
			opts: []Option{WithStylesheet(func() *Stylesheet {
				s := DefaultStylesheet()
				s.Extra = "} h1 { color: red; }"
				return s
			}())},
			wantErr: ErrInvalidStylesheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{withPDFConverter(&mockPDFConverter{})}, tt.opts...)
			conv, err := NewConverter(opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewConverter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}
			defer conv.Close()

			if conv.CSS() == "" {
				t.Error("CSS() is empty")
			}
		})
	}
}

func TestNewConverter_EngineSelection(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}))
	if _, ok := conv.htmlConverter.(*pipeline.Transliterator); !ok {
		t.Errorf("default engine = %T, want *pipeline.Transliterator", conv.htmlConverter)
	}

	conv = newTestConverter(t, withPDFConverter(&mockPDFConverter{}), WithEngine(EngineGoldmark))
	if _, ok := conv.htmlConverter.(*pipeline.GoldmarkConverter); !ok {
		t.Errorf("goldmark engine = %T, want *pipeline.GoldmarkConverter", conv.htmlConverter)
	}
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}), WithTimeout(2*time.Minute))
	if conv.cfg.timeout != 2*time.Minute {
		t.Errorf("timeout = %v, want 2m", conv.cfg.timeout)
	}

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// TestConvert - pipeline behavior
// ---------------------------------------------------------------------------

func TestConvert_Success(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{Result: []byte("%PDF-1.7 fake")}
	conv := newTestConverter(t, withPDFConverter(pdf))

	res, err := conv.Convert(context.Background(), Input{Markdown: "\ufeff# Title\r\n\r\nSome *text*."})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if string(res.PDF) != "%PDF-1.7 fake" {
		t.Errorf("PDF = %q, want mock bytes", res.PDF)
	}

	html := string(res.HTML)
	for _, want := range []string{
		"<title>" + DefaultTitle + "</title>",
		"<style>",
		"font-family: 'Times New Roman', Times, serif;",
		"<h1>Title</h1>\n\n<p>Some <em>text</em>.</p>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q:\n%s", want, html)
		}
	}

	if pdf.CalledWith != html {
		t.Error("PDF converter did not receive the returned HTML")
	}
	if pdf.CalledOpts == nil || pdf.CalledOpts.FooterTemplate == "" {
		t.Errorf("pdf options = %+v, want footer template from the default stylesheet", pdf.CalledOpts)
	}
}

func TestConvert_EmptyMarkdown(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{Result: []byte("%PDF")}))

	res, err := conv.Convert(context.Background(), Input{Markdown: ""})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(res.HTML), "<body>\n\n</body>") {
		t.Errorf("HTML = %s, want empty body", res.HTML)
	}
}

func TestConvert_HTMLOnly(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{Result: []byte("%PDF")}
	conv := newTestConverter(t, withPDFConverter(pdf))

	res, err := conv.Convert(context.Background(), Input{Markdown: "# A", HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.PDF != nil {
		t.Errorf("PDF = %q, want nil", res.PDF)
	}
	if pdf.CalledWith != "" {
		t.Error("PDF converter called in HTML-only mode")
	}
}

func TestConvert_Title(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}), WithTitle("Default"))

	res, err := conv.Convert(context.Background(), Input{Markdown: "x", HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(res.HTML), "<title>Default</title>") {
		t.Errorf("HTML = %s, want converter title", res.HTML)
	}

	res, err = conv.Convert(context.Background(), Input{Markdown: "x", Title: "Fraud Detection", HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(res.HTML), "<title>Fraud Detection</title>") {
		t.Errorf("HTML = %s, want input title", res.HTML)
	}
}

func TestConvert_AnyOrderedMarker(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}), WithAnyOrderedMarker())

	res, err := conv.Convert(context.Background(), Input{Markdown: "7. seventh", HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(res.HTML), "<ol>\n<li>seventh</li>\n</ol>") {
		t.Errorf("HTML = %s, want ordered list", res.HTML)
	}
}

func TestConvert_BlockTagParagraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"default leaves tag-led block", nil, "<body>\n<strong>1.</strong> A method\n</body>"},
		{"block tags only", []Option{WithBlockTagParagraphs()}, "<body>\n<p><strong>1.</strong> A method</p>\n</body>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{withPDFConverter(&mockPDFConverter{})}, tt.opts...)
			conv := newTestConverter(t, opts...)

			res, err := conv.Convert(context.Background(), Input{Markdown: "**1.** A method", HTMLOnly: true})
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if !strings.Contains(string(res.HTML), tt.want) {
				t.Errorf("HTML = %s, want %q", res.HTML, tt.want)
			}
		})
	}
}

func TestConvert_ResolvesFigures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}))

	res, err := conv.Convert(context.Background(), Input{
		Markdown:  `<img src="fig1.png" alt="FIG. 1">`,
		SourceDir: dir,
		HTMLOnly:  true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(res.HTML), `src="file://`) {
		t.Errorf("HTML = %s, want file:// image source", res.HTML)
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("browser crashed")

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name: "HTML conversion error",
			opts: []Option{
				withHTMLConverter(&mockHTMLConverter{Err: pipeline.ErrHTMLConversion}),
				withPDFConverter(&mockPDFConverter{}),
			},
			wantErr: ErrHTMLConversion,
		},
		{
			name:    "PDF converter error",
			opts:    []Option{withPDFConverter(&mockPDFConverter{Err: renderErr})},
			wantErr: renderErr,
		},
		{
			name: "browser error keeps its sentinel",
			opts: []Option{withPDFConverter(&mockPDFConverter{
				Err: errors.Join(ErrBrowserConnect, renderErr),
			})},
			wantErr: ErrBrowserConnect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, tt.opts...)
			_, err := conv.Convert(context.Background(), Input{Markdown: "# A"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_ContextCancellation(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{Result: []byte("%PDF")}
	conv := newTestConverter(t, withPDFConverter(pdf))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, Input{Markdown: "# A"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
	if pdf.CalledWith != "" {
		t.Error("PDF converter called after cancellation")
	}
}

func TestConvert_RecoversPanic(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}), withPreprocessor(&panicPreprocessor{}))

	_, err := conv.Convert(context.Background(), Input{Markdown: "# A"})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("Convert() error = %v, want internal error", err)
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	conv, err := NewConverter(withPDFConverter(pdf))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	if err := conv.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !pdf.Closed {
		t.Error("Close() did not close the PDF converter")
	}
}
