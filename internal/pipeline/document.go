package pipeline

import (
	"context"
	"html"
	"strings"
)

// WrapDocument embeds body in a minimal HTML5 document.
func WrapDocument(title, body string) string {
	var b strings.Builder
	b.Grow(len(body) + 160)
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// CSSInjector places a stylesheet into an HTML document.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body> when there
// is no head, or in front of the document as a last resort.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	block := "<style>\n" + escapeStyleContent(cssContent) + "\n</style>\n"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.IndexByte(htmlContent[idx:], '>'); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + block + htmlContent[pos:]
		}
	}
	return block + htmlContent
}

// escapeStyleContent keeps CSS from closing the <style> element early.
func escapeStyleContent(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
