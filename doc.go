// Package patent2pdf converts Markdown patent specifications to PDF files
// formatted for filing, using headless Chrome.
//
// # Quick Start
//
//	conv, err := patent2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, patent2pdf.Input{
//	    Markdown: "# System and Method\n\n## Abstract\n\nA method for ...",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("PATENT.pdf", result.PDF, 0644)
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing (BOM, line endings, Unicode NFC)
//  2. Markdown to HTML: the transliterate engine (default) or goldmark
//  3. Figure paths resolved, fragment wrapped in an HTML document
//  4. Stylesheet inlined as a <style> block
//  5. PDF printing via headless Chrome (go-rod), with the running header
//     and "Page N" footer drawn as Chrome header/footer templates
//
// The transliterate engine is a line-oriented substitution pass, not a
// Markdown parser: it handles headers up to level 4, bold and italic, fenced
// and inline code, flat lists, horizontal rules and paragraphs, and passes
// raw HTML through. Select goldmark with WithEngine(EngineGoldmark) for
// nested lists, tables and footnotes.
//
// # Stylesheet
//
// DefaultStylesheet reproduces the filing layout: US Letter, 1 inch margins,
// Times New Roman 12pt with justified paragraphs. Adjust a copy and pass it
// with WithStylesheet:
//
//	sheet := patent2pdf.DefaultStylesheet()
//	sheet.Page.Size = patent2pdf.PageSizeA4
//	sheet.Header = "Patent Application - Example Corp"
//	sheet.Extra = "h2 { page-break-before: always; }"
//	conv, err := patent2pdf.NewConverter(patent2pdf.WithStylesheet(sheet))
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package patent2pdf
