package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: patent2pdf [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert the configured Markdown patent specifications to PDF.")
	fmt.Fprintln(w, "Without a config file the three Taurus AI patents are converted from")
	fmt.Fprintln(w, "the directory of the executable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -d, --dir <path>          Base directory for relative document paths")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document render timeout (default 30s)")
	fmt.Fprintln(w, "      --engine <s>          Markdown engine: transliterate, goldmark")
	fmt.Fprintln(w, "      --any-ordered-marker  Treat any N. line as an ordered list item")
	fmt.Fprintln(w, "      --block-paragraphs    Leave a block unwrapped only when a block-level tag leads it")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --html                Also write HTML next to each PDF")
	fmt.Fprintln(w, "      --html-only           Write HTML only, skip PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timings and HTML structure")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "      --print-config        Print the effective config as YAML and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Use an installed Chrome")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the Chrome sandbox (Docker, CI)")
}
