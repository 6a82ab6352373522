package pipeline

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Report summarizes the structure of generated HTML.
type Report struct {
	Headings   int
	Paragraphs int
	Lists      int
	ListItems  int
	CodeBlocks int
	Rules      int

	// Unclosed lists start tags with no matching end tag, in document order.
	Unclosed []string
	// Unmatched lists end tags with no open element of the same name.
	Unmatched []string
}

// WellFormed reports whether every element was closed in order.
func (r Report) WellFormed() bool {
	return len(r.Unclosed) == 0 && len(r.Unmatched) == 0
}

func (r Report) String() string {
	s := fmt.Sprintf("headings=%d paragraphs=%d lists=%d items=%d code=%d rules=%d",
		r.Headings, r.Paragraphs, r.Lists, r.ListItems, r.CodeBlocks, r.Rules)
	if len(r.Unclosed) > 0 {
		s += " unclosed=" + strings.Join(r.Unclosed, ",")
	}
	if len(r.Unmatched) > 0 {
		s += " unmatched=" + strings.Join(r.Unmatched, ",")
	}
	return s
}

// voidElements never take an end tag.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Track: true,
	atom.Wbr: true,
}

// Inspect tokenizes htmlContent and counts the block elements the
// converters emit. It does not build a DOM, so tags left open by the
// transliterator are reported instead of being repaired.
func Inspect(htmlContent string) (Report, error) {
	var r Report
	var open []string

	z := html.NewTokenizer(strings.NewReader(htmlContent))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return r, fmt.Errorf("inspecting HTML: %w", err)
			}
			r.Unclosed = append(r.Unclosed, open...)
			return r, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			r.count(a)
			if tt == html.StartTagToken && !voidElements[a] {
				open = append(open, string(name))
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			open = r.closeTag(open, string(name))
		}
	}
}

func (r *Report) count(a atom.Atom) {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		r.Headings++
	case atom.P:
		r.Paragraphs++
	case atom.Ul, atom.Ol:
		r.Lists++
	case atom.Li:
		r.ListItems++
	case atom.Pre:
		r.CodeBlocks++
	case atom.Hr:
		r.Rules++
	}
}

// closeTag pops the innermost open element named name. Elements opened
// after it were never closed.
func (r *Report) closeTag(open []string, name string) []string {
	for i := len(open) - 1; i >= 0; i-- {
		if open[i] != name {
			continue
		}
		r.Unclosed = append(r.Unclosed, open[i+1:]...)
		return open[:i]
	}
	r.Unmatched = append(r.Unmatched, name)
	return open
}
