// Package fontconf resolves the fonts a stylesheet asks for to files on disk
// and turns them into @font-face rules Chrome can load from file:// URLs.
package fontconf

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/flopp/go-findfont"
)

// Sentinel errors for font resolution.
var (
	ErrFontNotFound = errors.New("font not found")
	ErrEmptyFamily  = errors.New("font family cannot be empty")
	ErrEmptyFile    = errors.New("font file cannot be empty")
)

// find locates a font file; replaced in tests.
var find = findfont.Find

// Face names a font family and the file providing it.
// File is either a path or a file name searched in the user and system font
// directories (partial names such as "DejaVuSerif" are accepted).
type Face struct {
	Family string
	File   string
	Weight string // CSS font-weight, empty for normal
	Style  string // CSS font-style, empty for normal
}

// Resolved is a Face whose file has been located.
type Resolved struct {
	Face
	Path string // absolute path of the font file
}

// Resolve locates every face. The first face that cannot be found aborts
// resolution.
func Resolve(faces []Face) ([]Resolved, error) {
	out := make([]Resolved, 0, len(faces))
	for _, f := range faces {
		if strings.TrimSpace(f.Family) == "" {
			return nil, ErrEmptyFamily
		}
		if strings.TrimSpace(f.File) == "" {
			return nil, fmt.Errorf("%w: family %q", ErrEmptyFile, f.Family)
		}

		path, err := find(f.File)
		if err != nil {
			return nil, fmt.Errorf("%w: %q for family %q: %v", ErrFontNotFound, f.File, f.Family, err)
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		out = append(out, Resolved{Face: f, Path: path})
	}
	return out, nil
}

// URL returns the file:// URL of the font file.
func (r Resolved) URL() string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(r.Path)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path // Windows drive letters
	}
	return u.String()
}

// Rule builds the @font-face rule for r.
func (r Resolved) Rule() *css.Rule {
	rule := css.NewRule(css.AtRule)
	rule.Name = "@font-face"
	rule.Declarations = []*css.Declaration{
		{Property: "font-family", Value: quote(r.Family)},
		{Property: "src", Value: fmt.Sprintf("url(%s) format(%s)", quote(r.URL()), quote(format(r.Path)))},
	}
	if r.Weight != "" {
		rule.Declarations = append(rule.Declarations, &css.Declaration{Property: "font-weight", Value: r.Weight})
	}
	if r.Style != "" {
		rule.Declarations = append(rule.Declarations, &css.Declaration{Property: "font-style", Value: r.Style})
	}
	return rule
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".otf":
		return "opentype"
	case ".ttc":
		return "collection"
	default:
		return "truetype"
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
