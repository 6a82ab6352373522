package patent2pdf

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"

	"github.com/taurus-ai/patent2pdf/internal/fontconf"
)

// Font maps a CSS font family to a font file on disk.
type Font struct {
	Family string
	File   string // path, or a file name searched in the system font directories
	Weight string
	Style  string
}

// Stylesheet is the print layout applied to every document: page geometry,
// running header and footer, and per-element typography.
// Build it once and share it; conversions never modify it.
type Stylesheet struct {
	Page        PageSettings
	Header      string // running header text, empty for none
	PageNumbers bool   // print "<PageLabel> N" at the bottom of each page
	PageLabel   string
	Fonts       []Font // extra faces, declared with @font-face
	Extra       string // CSS appended after the built-in rules
}

// Running header and footer typography.
const (
	marginBoxFontSize   = "9pt"
	marginBoxFontFamily = "Arial, Helvetica, sans-serif"
)

// DefaultStylesheet returns the layout used for patent filings: US Letter,
// 1 inch margins, Times New Roman 12pt, a centered running header and a
// "Page N" footer.
func DefaultStylesheet() *Stylesheet {
	return &Stylesheet{
		Page:        DefaultPageSettings(),
		Header:      "Patent Application - Taurus AI Corp",
		PageNumbers: true,
		PageLabel:   "Page",
	}
}

// Validate checks page settings and that Extra parses as CSS.
func (s *Stylesheet) Validate() error {
	if err := s.Page.Validate(); err != nil {
		return err
	}
	for i, f := range s.Fonts {
		if strings.TrimSpace(f.Family) == "" || strings.TrimSpace(f.File) == "" {
			return fmt.Errorf("%w: font %d: family and file are required", ErrInvalidStylesheet, i)
		}
	}
	if _, err := parseExtra(s.Extra); err != nil {
		return err
	}
	return nil
}

// CSS renders the stylesheet. Fonts are located on disk first, so a missing
// font file fails here with ErrFontNotFound.
func (s *Stylesheet) CSS() (string, error) {
	sheet, err := s.Build()
	if err != nil {
		return "", err
	}
	return sheet.String(), nil
}

// Build assembles the rules: @font-face declarations, @page, element rules,
// then the rules parsed from Extra.
func (s *Stylesheet) Build() (*css.Stylesheet, error) {
	extra, err := parseExtra(s.Extra)
	if err != nil {
		return nil, err
	}

	faces, err := fontconf.Resolve(s.fontFaces())
	if err != nil {
		return nil, err
	}

	sheet := &css.Stylesheet{}
	for _, f := range faces {
		sheet.Rules = append(sheet.Rules, f.Rule())
	}
	sheet.Rules = append(sheet.Rules, s.pageRule())
	sheet.Rules = append(sheet.Rules, elementRules()...)
	sheet.Rules = append(sheet.Rules, extra...)
	return sheet, nil
}

func (s *Stylesheet) fontFaces() []fontconf.Face {
	faces := make([]fontconf.Face, len(s.Fonts))
	for i, f := range s.Fonts {
		faces[i] = fontconf.Face(f)
	}
	return faces
}

// pageRule sets the paper size for print preview and tools reading CSS.
// The renderer passes the same geometry to Chrome explicitly.
func (s *Stylesheet) pageRule() *css.Rule {
	size := strings.ToLower(s.Page.Size)
	if s.Page.Landscape() {
		size += " " + OrientationLandscape
	}
	r := css.NewRule(css.AtRule)
	r.Name = "@page"
	r.Declarations = []*css.Declaration{
		decl("size", size),
		decl("margin", inches(s.Page.Margin)),
	}
	return r
}

// elementRules are the typographic rules for patent text.
func elementRules() []*css.Rule {
	const serif = "'Times New Roman', Times, serif"
	const mono = "'Courier New', Courier, monospace"

	return []*css.Rule{
		rule([]string{"body"},
			decl("font-family", serif),
			decl("font-size", "12pt"),
			decl("line-height", "1.6"),
			decl("color", "#000"),
		),
		rule([]string{"h1"},
			decl("font-size", "18pt"),
			decl("font-weight", "bold"),
			decl("margin-top", "24pt"),
			decl("margin-bottom", "16pt"),
			decl("text-align", "center"),
			decl("page-break-after", "avoid"),
		),
		rule([]string{"h2"},
			decl("font-size", "14pt"),
			decl("font-weight", "bold"),
			decl("margin-top", "20pt"),
			decl("margin-bottom", "12pt"),
			decl("border-bottom", "2px solid #333"),
			decl("page-break-after", "avoid"),
		),
		rule([]string{"h3"},
			decl("font-size", "12pt"),
			decl("font-weight", "bold"),
			decl("margin-top", "16pt"),
			decl("margin-bottom", "10pt"),
		),
		rule([]string{"p"},
			decl("margin-top", "8pt"),
			decl("margin-bottom", "8pt"),
			decl("text-align", "justify"),
		),
		rule([]string{"code"},
			decl("font-family", mono),
			decl("font-size", "10pt"),
			decl("background-color", "#f5f5f5"),
			decl("padding", "2px 4px"),
			decl("border", "1px solid #ddd"),
		),
		rule([]string{"pre"},
			decl("font-family", mono),
			decl("font-size", "9pt"),
			decl("background-color", "#f8f8f8"),
			decl("padding", "12px"),
			decl("border", "1px solid #ccc"),
			decl("overflow-x", "auto"),
			decl("page-break-inside", "avoid"),
			decl("line-height", "1.4"),
		),
		rule([]string{"pre code"},
			decl("font-size", "inherit"),
			decl("background-color", "transparent"),
			decl("padding", "0"),
			decl("border", "none"),
		),
		rule([]string{"table"},
			decl("border-collapse", "collapse"),
			decl("width", "100%"),
			decl("margin", "12pt 0"),
			decl("font-size", "11pt"),
		),
		rule([]string{"th", "td"},
			decl("border", "1px solid #000"),
			decl("padding", "8pt"),
			decl("text-align", "left"),
		),
		rule([]string{"th"},
			decl("background-color", "#e8e8e8"),
			decl("font-weight", "bold"),
		),
		rule([]string{"hr"},
			decl("border", "none"),
			decl("border-top", "1px solid #333"),
			decl("margin", "16pt 0"),
		),
		rule([]string{"strong"}, decl("font-weight", "bold")),
		rule([]string{"em"}, decl("font-style", "italic")),
		rule([]string{"ul", "ol"},
			decl("margin-left", "24pt"),
			decl("margin-top", "8pt"),
			decl("margin-bottom", "8pt"),
		),
		rule([]string{"li"}, decl("margin-bottom", "4pt")),
	}
}

// headerTemplate is Chrome's header template, or "" without a header.
func (s *Stylesheet) headerTemplate() string {
	if s.Header == "" {
		return ""
	}
	return marginBox(html.EscapeString(s.Header))
}

// footerTemplate is Chrome's footer template, or "" without page numbers.
// Chrome fills elements of class pageNumber at print time.
func (s *Stylesheet) footerTemplate() string {
	if !s.PageNumbers {
		return ""
	}
	label := html.EscapeString(s.PageLabel)
	if label != "" {
		label += " "
	}
	return marginBox(label + `<span class="pageNumber"></span>`)
}

func marginBox(content string) string {
	return fmt.Sprintf(`<div style="font-size: %s; font-family: %s; color: #000; width: 100%%; text-align: center;">%s</div>`,
		marginBoxFontSize, marginBoxFontFamily, content)
}

// parseExtra parses user CSS so that syntax errors surface at setup.
// The parser closes a block left open at end of input, so unbalanced braces
// are checked separately.
func parseExtra(extra string) ([]*css.Rule, error) {
	if strings.TrimSpace(extra) == "" {
		return nil, nil
	}
	sheet, err := parser.Parse(extra)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStylesheet, err)
	}
	if err := checkBraces(extra); err != nil {
		return nil, err
	}
	return sheet.Rules, nil
}

// checkBraces reports a '}' without a matching '{' and blocks left open.
// Braces inside strings, comments and url() are tokens of their own and do
// not count.
func checkBraces(extra string) error {
	var open []*scanner.Token
	s := scanner.New(extra)
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			if len(open) > 0 {
				last := open[len(open)-1]
				return fmt.Errorf("%w: '{' at line %d, column %d is never closed", ErrInvalidStylesheet, last.Line, last.Column)
			}
			return nil
		case scanner.TokenError:
			return fmt.Errorf("%w: %s", ErrInvalidStylesheet, tok)
		case scanner.TokenChar:
			switch tok.Value {
			case "{":
				open = append(open, tok)
			case "}":
				if len(open) == 0 {
					return fmt.Errorf("%w: unexpected '}' at line %d, column %d", ErrInvalidStylesheet, tok.Line, tok.Column)
				}
				open = open[:len(open)-1]
			}
		}
	}
}

func rule(selectors []string, decls ...*css.Declaration) *css.Rule {
	r := css.NewRule(css.QualifiedRule)
	r.Prelude = strings.Join(selectors, ", ")
	r.Selectors = selectors
	r.Declarations = decls
	return r
}

func decl(property, value string) *css.Declaration {
	return &css.Declaration{Property: property, Value: value}
}

func inches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "in"
}
