package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ResolveFigures rewrites relative <img src> paths in an HTML body fragment
// to file:// URLs under sourceDir. Chrome loads the document from a
// temporary file, so drawings referenced relative to the Markdown source
// would otherwise not be found.
//
// Fragments without an <img> tag are returned unchanged; other fragments
// are re-serialized by the HTML parser, which closes tags the transliterator
// left open. Paths escaping sourceDir, absolute paths and URLs are kept.
func ResolveFigures(fragment, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.Contains(strings.ToLower(fragment), "<img") {
		return fragment, nil
	}

	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range nodes {
		resolveImages(n, root)
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func resolveImages(n *html.Node, root string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, a := range n.Attr {
			if a.Key != "src" || !isLocalRelative(a.Val) {
				continue
			}
			p := filepath.Join(root, filepath.FromSlash(a.Val))
			if !within(p, root) {
				continue
			}
			n.Attr[i].Val = fileURL(p)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		resolveImages(c, root)
	}
}

// isLocalRelative reports whether src is a relative filesystem path.
func isLocalRelative(src string) bool {
	switch {
	case src == "",
		strings.HasPrefix(src, "#"),
		strings.HasPrefix(src, "//"),
		strings.HasPrefix(src, "/"),
		filepath.IsAbs(src):
		return false
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" {
		// http:, https:, data:, file: ... and Windows drive letters.
		return len(u.Scheme) == 1
	}
	return true
}

func within(p, root string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func fileURL(p string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String()
}
