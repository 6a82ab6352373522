package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by every invocation.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds output mode flags.
type outputFlags struct {
	html     bool // Output HTML alongside PDF
	htmlOnly bool // Output HTML only, skip PDF
}

// engineFlags holds flags that select and tune the Markdown engine.
type engineFlags struct {
	engine           string
	anyOrderedMarker bool
	blockParagraphs  bool
}

// runFlags holds all flags of the patent2pdf command.
type runFlags struct {
	common     commonFlags
	dir        string
	timeout    string
	engine     engineFlags
	outputMode outputFlags
	help        bool
	version     bool
	printConfig bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timings and HTML structure")
}

// addEngineFlags adds Markdown engine flags to a FlagSet.
func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVar(&f.engine, "engine", "", "markdown engine: transliterate, goldmark")
	fs.BoolVar(&f.anyOrderedMarker, "any-ordered-marker", false, "treat any N. line as an ordered list item")
	fs.BoolVar(&f.blockParagraphs, "block-paragraphs", false, "skip <p> only for blocks led by a block-level tag")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "output HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output HTML only, skip PDF")
}

// parseFlags parses command flags and returns positional args.
func parseFlags(args []string, usage io.Writer) (*runFlags, []string, error) {
	fs := flag.NewFlagSet("patent2pdf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &runFlags{}

	fs.StringVarP(&f.dir, "dir", "d", "", "base directory for relative document paths")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document render timeout (e.g., 30s, 2m)")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")
	fs.BoolVar(&f.version, "version", false, "show version")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config as YAML and exit")

	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)
	addOutputFlags(fs, &f.outputMode)

	fs.Usage = func() { printUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
