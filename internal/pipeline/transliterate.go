package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Patterns for the transliteration passes. Each pass works on the whole text
// produced by the previous one; none of them looks at surrounding structure.
var (
	headerLine      = regexp.MustCompile(`(?m)^(#{1,4}) (.*)$`)
	strongPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	emPattern       = regexp.MustCompile(`\*(.+?)\*`)
	fencedCode      = regexp.MustCompile("(?s)```(\\w+)?\n(.*?)\n?```")
	inlineCode      = regexp.MustCompile("`([^`]+)`")
	numberedMarker  = regexp.MustCompile(`^\d+\. `)
	blockTagPrefix  = regexp.MustCompile(`(?i)^<(?:!|/?(?:address|article|aside|blockquote|details|div|dl|dd|dt|figure|footer|h[1-6]|header|hr|li|main|nav|ol|p|pre|section|table|tbody|td|tfoot|th|thead|tr|ul)\b)`)
	orderedMarkers  = []string{"1. ", "2. ", "3. ", "4. ", "5. "}
	unorderedMarker = []string{"- ", "* "}
)

// DefaultDocumentTitle is the <title> written by Transliterate.
const DefaultDocumentTitle = "Patent Application"

// TransliteratorOption configures a Transliterator.
type TransliteratorOption func(*Transliterator)

// WithAnyOrderedMarker accepts any leading integer followed by ". " as an
// ordered list marker. Without it only "1. " through "5. " are recognized.
func WithAnyOrderedMarker() TransliteratorOption {
	return func(t *Transliterator) { t.anyOrdered = true }
}

// WithBlockTagParagraphs narrows the paragraph rule: only blocks that start
// with a block-level tag or "<!" are left unwrapped, so a block opening with
// inline markup such as <strong> becomes a paragraph. By default any block
// starting with "<" is left as is.
func WithBlockTagParagraphs() TransliteratorOption {
	return func(t *Transliterator) { t.blockTags = true }
}

// Transliterator converts Markdown-like text to HTML with ordered,
// non-recursive substitutions. It is not a Markdown parser: emphasis cannot
// nest, code spans are not protected from other passes, and only flat lists
// are recognized. The output is deterministic and conversion never fails.
type Transliterator struct {
	anyOrdered bool
	blockTags  bool
}

// NewTransliterator returns a Transliterator with the given options applied.
func NewTransliterator(opts ...TransliteratorOption) *Transliterator {
	t := &Transliterator{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transliterate converts markdown into a complete HTML document titled
// DefaultDocumentTitle. Callers that need another title or post-process the
// body use Fragment and WrapDocument.
func (t *Transliterator) Transliterate(markdown string) string {
	return WrapDocument(DefaultDocumentTitle, t.Fragment(markdown))
}

// Fragment runs the substitution passes and returns the body content.
func (t *Transliterator) Fragment(markdown string) string {
	s := convertHeaders(markdown)
	s = convertEmphasis(s)
	s = convertCode(s)
	s = t.convertLists(s)
	s = convertRules(s)
	return t.wrapParagraphs(s)
}

// ToHTML implements HTMLConverter. It returns the body fragment.
func (t *Transliterator) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return t.Fragment(content), nil
}

// convertHeaders turns "# " to "#### " lines into <h1> to <h4>. Each header
// is closed at the end of its own line.
func convertHeaders(s string) string {
	return headerLine.ReplaceAllStringFunc(s, func(line string) string {
		m := headerLine.FindStringSubmatch(line)
		level := len(m[1])
		return fmt.Sprintf("<h%d>%s</h%d>", level, m[2], level)
	})
}

// convertEmphasis handles **strong** before *em* so the double markers are
// consumed first.
func convertEmphasis(s string) string {
	s = strongPattern.ReplaceAllString(s, "<strong>${1}</strong>")
	return emPattern.ReplaceAllString(s, "<em>${1}</em>")
}

// convertCode handles fenced blocks before inline spans. The language tag of
// a fence is dropped.
func convertCode(s string) string {
	s = fencedCode.ReplaceAllString(s, "<pre><code>${2}</code></pre>")
	return inlineCode.ReplaceAllString(s, "<code>${1}</code>")
}

type listKind int

const (
	noList listKind = iota
	unorderedList
	orderedList
)

func (k listKind) open() string {
	if k == orderedList {
		return "<ol>"
	}
	return "<ul>"
}

func (k listKind) close() string {
	if k == orderedList {
		return "</ol>"
	}
	return "</ul>"
}

// convertLists wraps runs of list item lines in a single container. Any other
// line closes the open container, and so does a switch between ordered and
// unordered items.
func (t *Transliterator) convertLists(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	open := noList

	for _, line := range lines {
		kind, item := t.classify(line)
		if kind != open {
			if open != noList {
				out = append(out, open.close())
			}
			if kind != noList {
				out = append(out, kind.open())
			}
			open = kind
		}
		if kind == noList {
			out = append(out, line)
			continue
		}
		out = append(out, "<li>"+item+"</li>")
	}
	if open != noList {
		out = append(out, open.close())
	}

	return strings.Join(out, "\n")
}

// classify reports whether line is a list item and, if so, its text.
func (t *Transliterator) classify(line string) (listKind, string) {
	trimmed := strings.TrimSpace(line)

	for _, m := range unorderedMarker {
		if strings.HasPrefix(trimmed, m) {
			return unorderedList, trimmed[len(m):]
		}
	}

	if t.anyOrdered {
		if loc := numberedMarker.FindStringIndex(trimmed); loc != nil {
			return orderedList, trimmed[loc[1]:]
		}
		return noList, ""
	}
	for _, m := range orderedMarkers {
		if strings.HasPrefix(trimmed, m) {
			return orderedList, trimmed[len(m):]
		}
	}
	return noList, ""
}

// convertRules replaces every "---", wherever it appears.
func convertRules(s string) string {
	return strings.ReplaceAll(s, "---", "<hr>")
}

// wrapParagraphs wraps blank-line separated blocks in <p> unless they are
// empty or already start with a tag.
func (t *Transliterator) wrapParagraphs(s string) string {
	blocks := strings.Split(s, "\n\n")
	for i, b := range blocks {
		if strings.TrimSpace(b) == "" {
			continue
		}
		if t.startsWithTag(strings.TrimLeft(b, " \t\n")) {
			continue
		}
		blocks[i] = "<p>" + b + "</p>"
	}
	return strings.Join(blocks, "\n\n")
}

func (t *Transliterator) startsWithTag(block string) bool {
	if t.blockTags {
		return blockTagPrefix.MatchString(block)
	}
	return strings.HasPrefix(block, "<")
}
