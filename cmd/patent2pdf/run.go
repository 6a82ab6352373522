package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/taurus-ai/patent2pdf"
	"github.com/taurus-ai/patent2pdf/internal/config"
	"github.com/taurus-ai/patent2pdf/internal/fileutil"
	"github.com/taurus-ai/patent2pdf/internal/hints"
	"github.com/taurus-ai/patent2pdf/internal/yamlutil"
)

// Sentinel errors for setup.
var (
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrUnexpectedArgs = errors.New("unexpected arguments")
)

// run parses args, loads the configuration and converts every configured
// document. It returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n\n", err)
		printUsage(env.Stderr)
		return ExitUsage
	}
	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "patent2pdf %s\n", Version)
		return ExitSuccess
	}
	if len(positional) > 0 {
		return fail(env, fmt.Errorf("%w: %v (documents are listed in the config file)", ErrUnexpectedArgs, positional), "")
	}

	if env.SetMaxProcs != nil {
		env.SetMaxProcs(flags.common.verbose, env.Stderr)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		hint := ""
		if errors.Is(err, config.ErrConfigNotFound) {
			hint = hints.ForConfigNotFound(config.SearchPaths(flags.common.config))
		}
		return fail(env, err, hint)
	}
	if flags.printConfig {
		return printConfig(env, cfg)
	}

	baseDir, err := resolveBaseDir(cfg, env.Executable)
	if err != nil {
		return fail(env, err, "")
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Base directory: %s\n", baseDir)
		fmt.Fprintf(env.Stderr, "Engine: %s\n", cfg.Markdown.Engine)
		fmt.Fprintf(env.Stderr, "Timeout: %s\n", cfg.TimeoutDuration())
	}

	conv, err := env.NewConverter(converterOptions(cfg)...)
	if err != nil {
		hint := ""
		if errors.Is(err, patent2pdf.ErrFontNotFound) {
			hint = hints.ForFontNotFound()
		}
		return fail(env, fmt.Errorf("setting up converter: %w", err), hint)
	}
	defer func() { _ = conv.Close() }()

	params := &conversionParams{
		baseDir:    baseDir,
		htmlOutput: flags.outputMode.html,
		htmlOnly:   flags.outputMode.htmlOnly,
		quiet:      flags.common.quiet,
		verbose:    flags.common.verbose,
	}

	start := env.Now()
	files := resolveDocuments(cfg.Documents, baseDir)
	results := convertAll(ctx, conv, files, params, env)
	printSummary(results, cfg.Filing.Portals, params, env)

	if params.verbose {
		fmt.Fprintf(env.Stderr, "Total: %v\n", env.Now().Sub(start).Round(time.Millisecond))
	}

	if err := ctx.Err(); err != nil {
		fmt.Fprintln(env.Stderr, "Interrupted")
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// fail prints a setup error with its hint and returns its exit code.
func fail(env *Environment, err error, hint string) int {
	fmt.Fprintf(env.Stderr, "Error: %v%s\n", err, hint)
	return exitCodeFor(err)
}

// loadConfig loads the config named by --config, or the built-in one, and
// applies flag overrides. CLI wins.
func loadConfig(flags *runFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := mergeFlags(flags, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *runFlags, cfg *config.Config) error {
	if flags.dir != "" {
		cfg.BaseDir = flags.dir
	}
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		if d <= 0 {
			return fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, flags.timeout)
		}
		cfg.Timeout = flags.timeout
	}
	if flags.engine.engine != "" {
		cfg.Markdown.Engine = flags.engine.engine
	}
	if flags.engine.anyOrderedMarker {
		cfg.Markdown.AnyOrderedMarker = true
	}
	if flags.engine.blockParagraphs {
		cfg.Markdown.BlockTagParagraphs = true
	}
	return nil
}

// printConfig writes the merged configuration to stdout as YAML.
func printConfig(env *Environment, cfg *config.Config) int {
	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fail(env, err, "")
	}
	_, _ = env.Stdout.Write(out)
	return ExitSuccess
}

// resolveBaseDir returns the directory relative document paths are resolved
// against: the configured base directory, else the directory of the
// executable.
func resolveBaseDir(cfg *config.Config, executable func() (string, error)) (string, error) {
	if cfg.BaseDir != "" {
		return cfg.BaseDir, nil
	}
	return fileutil.ExecutableDir(executable)
}

// stylesheetFor builds the print stylesheet from the config.
func stylesheetFor(cfg *config.Config) *patent2pdf.Stylesheet {
	s := patent2pdf.DefaultStylesheet()
	s.Page = patent2pdf.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
		Margin:      cfg.Page.Margin,
	}

	s.Header = cfg.Header.Text
	if cfg.Header.Disabled {
		s.Header = ""
	}
	s.PageNumbers = !cfg.Footer.Disabled
	s.PageLabel = cfg.Footer.PageLabel

	for _, f := range cfg.Fonts {
		s.Fonts = append(s.Fonts, patent2pdf.Font(f))
	}
	s.Extra = cfg.CSS.Extra
	return s
}

// converterOptions maps the config onto converter options.
func converterOptions(cfg *config.Config) []patent2pdf.Option {
	opts := []patent2pdf.Option{
		patent2pdf.WithStylesheet(stylesheetFor(cfg)),
		patent2pdf.WithEngine(strings.ToLower(cfg.Markdown.Engine)),
		patent2pdf.WithTitle(cfg.Title),
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, patent2pdf.WithTimeout(d))
	}
	if cfg.Markdown.AnyOrderedMarker {
		opts = append(opts, patent2pdf.WithAnyOrderedMarker())
	}
	if cfg.Markdown.BlockTagParagraphs {
		opts = append(opts, patent2pdf.WithBlockTagParagraphs())
	}
	return opts
}
