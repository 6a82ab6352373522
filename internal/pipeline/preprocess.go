package pipeline

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const byteOrderMark = "\ufeff"

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownPreprocessor prepares raw Markdown before conversion.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor normalizes text exported from word processors and
// editors on different platforms.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown strips a leading BOM, converts CRLF and CR line endings
// to LF, and composes the text to Unicode NFC so that accented names typed
// as combining sequences match the precomposed form.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	content = normalizeLineEndings(content)
	return norm.NFC.String(content)
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
