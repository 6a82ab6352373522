package patent2pdf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultStylesheet_CSS(t *testing.T) {
	t.Parallel()

	css, err := DefaultStylesheet().CSS()
	if err != nil {
		t.Fatalf("CSS() error = %v", err)
	}

	for _, want := range []string{
		"@page {",
		"size: letter;",
		"margin: 1in;",
		"body {",
		"font-size: 12pt;",
		"line-height: 1.6;",
		"h1 {",
		"font-size: 18pt;",
		"text-align: center;",
		"border-bottom: 2px solid #333;",
		"text-align: justify;",
		"th, td {",
		"background-color: #e8e8e8;",
		"border-top: 1px solid #333;",
		"ul, ol {",
		"margin-left: 24pt;",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS() missing %q", want)
		}
	}

	if strings.Contains(css, "@font-face") {
		t.Error("default stylesheet should not declare fonts")
	}
}

func TestStylesheet_CSS_Order(t *testing.T) {
	t.Parallel()

	s := DefaultStylesheet()
	s.Extra = "h2 { page-break-before: always; }"

	css, err := s.CSS()
	if err != nil {
		t.Fatalf("CSS() error = %v", err)
	}

	page := strings.Index(css, "@page")
	body := strings.Index(css, "body {")
	extra := strings.Index(css, "page-break-before: always;")
	if page < 0 || body < page || extra < body {
		t.Errorf("rule order: @page=%d body=%d extra=%d, want ascending", page, body, extra)
	}
}

func TestStylesheet_CSS_Landscape(t *testing.T) {
	t.Parallel()

	s := DefaultStylesheet()
	s.Page = PageSettings{Size: "Legal", Orientation: OrientationLandscape, Margin: 0.75}

	css, err := s.CSS()
	if err != nil {
		t.Fatalf("CSS() error = %v", err)
	}
	if !strings.Contains(css, "size: legal landscape;") || !strings.Contains(css, "margin: 0.75in;") {
		t.Errorf("CSS() @page rule wrong:\n%s", css)
	}
}

func TestStylesheet_Fonts(t *testing.T) {
	t.Parallel()

	fontPath := filepath.Join(t.TempDir(), "PatentSerif.ttf")
	if err := os.WriteFile(fontPath, []byte("not really a font"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("resolved font becomes @font-face", func(t *testing.T) {
		t.Parallel()

		s := DefaultStylesheet()
		s.Fonts = []Font{{Family: "Patent Serif", File: fontPath, Weight: "bold"}}

		css, err := s.CSS()
		if err != nil {
			t.Fatalf("CSS() error = %v", err)
		}
		for _, want := range []string{"@font-face", `font-family: "Patent Serif";`, "PatentSerif.ttf", `format("truetype")`, "font-weight: bold;"} {
			if !strings.Contains(css, want) {
				t.Errorf("CSS() missing %q:\n%s", want, css)
			}
		}
		if strings.Index(css, "@font-face") > strings.Index(css, "@page") {
			t.Error("@font-face must precede other rules")
		}
	})

	t.Run("missing font", func(t *testing.T) {
		t.Parallel()

		s := DefaultStylesheet()
		s.Fonts = []Font{{Family: "Ghost", File: "no-such-font-7f3a9c.ttf"}}

		_, err := s.CSS()
		if !errors.Is(err, ErrFontNotFound) {
			t.Errorf("CSS() error = %v, want ErrFontNotFound", err)
		}
	})
}

func TestStylesheet_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Stylesheet)
		wantErr error
	}{
		{"default", func(*Stylesheet) {}, nil},
		{"valid extra", func(s *Stylesheet) { s.Extra = "p { text-indent: 2em; }" }, nil},
		{"stray closing brace", func(s *Stylesheet) { s.Extra = "} p { color: red; }" }, ErrInvalidStylesheet},
		{"missing closing brace", func(s *Stylesheet) { s.Extra = "p { color: red" }, ErrInvalidStylesheet},
		{"unclosed media block", func(s *Stylesheet) { s.Extra = "@media print { p { color: red; }" }, ErrInvalidStylesheet},
		{"extra closing brace at end", func(s *Stylesheet) { s.Extra = "p { color: red; } }" }, ErrInvalidStylesheet},
		{"braces in strings and comments", func(s *Stylesheet) {
			s.Extra = "/* { */ p::before { content: \"}\"; }"
		}, nil},
		{"nested blocks", func(s *Stylesheet) { s.Extra = "@media print { p { color: red; } }" }, nil},
		{"bad page size", func(s *Stylesheet) { s.Page.Size = "b5" }, ErrInvalidPageSize},
		{"bad orientation", func(s *Stylesheet) { s.Page.Orientation = "sideways" }, ErrInvalidOrientation},
		{"bad margin", func(s *Stylesheet) { s.Page.Margin = 0 }, ErrInvalidMargin},
		{"font without file", func(s *Stylesheet) { s.Fonts = []Font{{Family: "X"}} }, ErrInvalidStylesheet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := DefaultStylesheet()
			tt.mutate(s)

			err := s.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStylesheet_Templates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sheet      Stylesheet
		wantHeader string
		wantFooter string
	}{
		{
			name:       "header and labeled page number",
			sheet:      Stylesheet{Header: "Patent Application", PageNumbers: true, PageLabel: "Page"},
			wantHeader: ">Patent Application</div>",
			wantFooter: `>Page <span class="pageNumber"></span></div>`,
		},
		{
			name:       "page number without label",
			sheet:      Stylesheet{PageNumbers: true},
			wantFooter: `><span class="pageNumber"></span></div>`,
		},
		{
			name:       "header text is escaped",
			sheet:      Stylesheet{Header: "R&D <Draft>"},
			wantHeader: "R&amp;D &lt;Draft&gt;",
		},
		{
			name:  "nothing",
			sheet: Stylesheet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			header := tt.sheet.headerTemplate()
			footer := tt.sheet.footerTemplate()

			if tt.wantHeader == "" && header != "" {
				t.Errorf("headerTemplate() = %q, want empty", header)
			}
			if tt.wantHeader != "" && !strings.Contains(header, tt.wantHeader) {
				t.Errorf("headerTemplate() = %q, want %q", header, tt.wantHeader)
			}
			if tt.wantFooter == "" && footer != "" {
				t.Errorf("footerTemplate() = %q, want empty", footer)
			}
			if tt.wantFooter != "" && !strings.Contains(footer, tt.wantFooter) {
				t.Errorf("footerTemplate() = %q, want %q", footer, tt.wantFooter)
			}
			for _, tmpl := range []string{header, footer} {
				if tmpl != "" && !strings.Contains(tmpl, "font-size: 9pt") {
					t.Errorf("template %q should use 9pt text", tmpl)
				}
			}
		})
	}
}
