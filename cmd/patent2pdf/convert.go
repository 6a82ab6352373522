package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taurus-ai/patent2pdf"
	"github.com/taurus-ai/patent2pdf/internal/config"
	"github.com/taurus-ai/patent2pdf/internal/fileutil"
	"github.com/taurus-ai/patent2pdf/internal/hints"
	"github.com/taurus-ai/patent2pdf/internal/pipeline"
)

// Sentinel errors for per-document operations.
var (
	ErrInputNotFound = errors.New("input file not found")
	ErrReadMarkdown  = errors.New("failed to read markdown file")
	ErrWritePDF      = errors.New("failed to write PDF file")
	ErrWriteHTML     = errors.New("failed to write HTML file")
)

// FileToConvert is one configured document with resolved paths.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Skipped    bool // input missing, nothing attempted
	Duration   time.Duration
}

// conversionParams groups settings shared by every document of a batch.
type conversionParams struct {
	baseDir    string
	htmlOutput bool
	htmlOnly   bool
	quiet      bool
	verbose    bool
}

// resolveDocuments resolves every configured pair against baseDir.
func resolveDocuments(docs []config.Document, baseDir string) []FileToConvert {
	files := make([]FileToConvert, len(docs))
	for i, d := range docs {
		files[i] = FileToConvert{
			InputPath:  fileutil.Resolve(baseDir, d.Input),
			OutputPath: fileutil.Resolve(baseDir, d.Output),
		}
	}
	return files
}

// convertAll converts files one after another. A failed document never stops
// the batch; once ctx is done the remaining documents fail with its error.
func convertAll(ctx context.Context, conv CLIConverter, files []FileToConvert, params *conversionParams, env *Environment) []ConversionResult {
	results := make([]ConversionResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			results = append(results, ConversionResult{
				InputPath:  f.InputPath,
				OutputPath: f.OutputPath,
				Err:        err,
			})
			continue
		}
		results = append(results, convertFile(ctx, conv, f, params, env))
	}
	return results
}

// convertFile converts a single document, reporting progress and failures
// as it goes.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams, env *Environment) ConversionResult {
	start := env.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) ConversionResult {
		result.Err = err
		result.Duration = env.Now().Sub(start)
		return result
	}

	if !params.quiet {
		fmt.Fprintf(env.Stdout, "Converting %s to %s...\n", displayPath(f.InputPath, params.baseDir), displayPath(f.OutputPath, params.baseDir))
	}

	if !fileutil.FileExists(f.InputPath) {
		fmt.Fprintf(env.Stderr, "File not found: %s%s\n", displayPath(f.InputPath, params.baseDir), hints.ForMissingInput(params.baseDir))
		result.Skipped = true
		return done(fmt.Errorf("%w: %s", ErrInputNotFound, f.InputPath))
	}

	err := writeDocument(ctx, conv, f, &result, params, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error converting %s: %v%s\n", displayPath(f.InputPath, params.baseDir), err, hintFor(err))
		return done(err)
	}

	result = done(nil)
	if !params.quiet {
		fmt.Fprintf(env.Stdout, "Created: %s\n", displayPath(result.OutputPath, params.baseDir))
	}
	if params.verbose {
		fmt.Fprintf(env.Stdout, "  %v\n", result.Duration.Round(time.Millisecond))
	}
	return result
}

// writeDocument reads, converts and writes one document. result.OutputPath
// is updated to the HTML file in HTML-only mode.
func writeDocument(ctx context.Context, conv CLIConverter, f FileToConvert, result *ConversionResult, params *conversionParams, env *Environment) error {
	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- configured path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	res, err := conv.Convert(ctx, patent2pdf.Input{
		Markdown:  string(content),
		SourceDir: filepath.Dir(f.InputPath),
		HTMLOnly:  params.htmlOnly,
	})
	if err != nil {
		return err
	}

	if params.verbose {
		report, err := pipeline.Inspect(string(res.HTML))
		if err == nil {
			fmt.Fprintf(env.Stdout, "  html: %s\n", report)
		}
	}

	if params.htmlOnly || params.htmlOutput {
		htmlPath := fileutil.ReplaceExt(f.OutputPath, ".html")
		if err := fileutil.WriteOutput(htmlPath, res.HTML); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteHTML, err)
		}
		if params.htmlOnly {
			result.OutputPath = htmlPath
			return nil
		}
	}

	if err := fileutil.WriteOutput(f.OutputPath, res.PDF); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return nil
}

// hintFor returns the follow-up for a per-document error, if any.
func hintFor(err error) string {
	switch {
	case errors.Is(err, patent2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, patent2pdf.ErrPageLoad):
		return hints.ForTimeout()
	default:
		return ""
	}
}

// displayPath shortens paths under baseDir to their relative form.
func displayPath(path, baseDir string) string {
	if baseDir == "" {
		return path
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// ResultSummary holds the count of succeeded, failed and skipped conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Skipped   int
	Total     int
}

// countResults tallies the results of a batch.
func countResults(results []ConversionResult) ResultSummary {
	summary := ResultSummary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Skipped:
			summary.Skipped++
		case r.Err != nil:
			summary.Failed++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printSummary prints the batch summary and, when every document was
// converted, the filing next steps.
func printSummary(results []ConversionResult, portals []config.Portal, params *conversionParams, env *Environment) {
	summary := countResults(results)
	if params.quiet {
		return
	}

	fmt.Fprintf(env.Stdout, "\nConversion Summary: %d/%d patents converted successfully\n", summary.Succeeded, summary.Total)
	if summary.Total == 0 || summary.Succeeded != summary.Total {
		return
	}

	fmt.Fprintln(env.Stdout, "All patent PDFs ready for filing!")
	fmt.Fprintln(env.Stdout, "Next steps:")
	fmt.Fprintln(env.Stdout, "1. Review PDFs for formatting")
	for i, p := range portals {
		fmt.Fprintf(env.Stdout, "%d. File %s: %s\n", i+2, p.Name, p.URL)
	}
}
