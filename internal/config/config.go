package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taurus-ai/patent2pdf/internal/fileutil"
	"github.com/taurus-ai/patent2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxHeaderTextLength  = 200
	MaxPageLabelLength   = 50
	MaxPathLength        = 4096
	MaxPageSizeLength    = 10 // "letter", "a4", "legal"
	MaxOrientationLength = 10 // "portrait", "landscape"
	MaxFontFamilyLength  = 100
	MaxPortalNameLength  = 100
	MaxURLLength         = 2048
	MaxExtraCSSLength    = 64 << 10
)

// Markdown engine names.
const (
	EngineTransliterate = "transliterate"
	EngineGoldmark      = "goldmark"
)

// appDirName is the directory searched under the user config directory.
const appDirName = "patent2pdf"

// Config holds everything the driver needs to convert a batch of patents.
type Config struct {
	BaseDir   string         `yaml:"baseDir"` // empty = directory of the executable
	Title     string         `yaml:"title"`   // HTML <title> of every document
	Timeout   string         `yaml:"timeout"` // per document, e.g. "30s", "2m"
	Documents []Document     `yaml:"documents"`
	Page      PageConfig     `yaml:"page"`
	Header    HeaderConfig   `yaml:"header"`
	Footer    FooterConfig   `yaml:"footer"`
	Fonts     []FontConfig   `yaml:"fonts"`
	CSS       CSSConfig      `yaml:"css"`
	Markdown  MarkdownConfig `yaml:"markdown"`
	Filing    FilingConfig   `yaml:"filing"`
}

// Document is one (input, output) pair. Relative paths are resolved
// against the base directory.
type Document struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches, 0 = default
}

// HeaderConfig defines the running header printed at the top of each page.
type HeaderConfig struct {
	Text     string `yaml:"text"`
	Disabled bool   `yaml:"disabled"`
}

// FooterConfig defines the running footer with the page number.
type FooterConfig struct {
	PageLabel string `yaml:"pageLabel"` // printed before the page number
	Disabled  bool   `yaml:"disabled"`
}

// FontConfig maps a CSS font family to a font file.
type FontConfig struct {
	Family string `yaml:"family"`
	File   string `yaml:"file"` // path, or a file name searched in font directories
	Weight string `yaml:"weight"`
	Style  string `yaml:"style"`
}

// CSSConfig holds stylesheet additions.
type CSSConfig struct {
	Extra string `yaml:"extra"` // appended after the built-in rules
}

// MarkdownConfig selects and tunes the Markdown engine.
type MarkdownConfig struct {
	Engine             string `yaml:"engine"` // "transliterate" (default) or "goldmark"
	AnyOrderedMarker   bool   `yaml:"anyOrderedMarker"`
	BlockTagParagraphs bool   `yaml:"blockTagParagraphs"`
}

// FilingConfig lists the portals printed once every document is ready.
type FilingConfig struct {
	Portals []Portal `yaml:"portals"`
}

// Portal is a patent office filing site.
type Portal struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DefaultConfig returns the configuration of the Taurus AI patent filing
// batch.
func DefaultConfig() *Config {
	return &Config{
		Title:   "Patent Application",
		Timeout: "30s",
		Documents: []Document{
			{Input: "PATENT_1_ZK_KYC_SPECIFICATION.md", Output: "PATENT_1_ZK_KYC_SPECIFICATION.pdf"},
			{Input: "PATENT_2_FRAUD_DETECTION_SPECIFICATION.md", Output: "PATENT_2_FRAUD_DETECTION_SPECIFICATION.pdf"},
			{Input: "PATENT_3_OFFLINE_CBDC_SPECIFICATION.md", Output: "PATENT_3_OFFLINE_CBDC_SPECIFICATION.pdf"},
		},
		Page: PageConfig{
			Size:        "letter",
			Orientation: "portrait",
			Margin:      1.0,
		},
		Header:   HeaderConfig{Text: "Patent Application - Taurus AI Corp"},
		Footer:   FooterConfig{PageLabel: "Page"},
		Markdown: MarkdownConfig{Engine: EngineTransliterate},
		Filing: FilingConfig{
			Portals: []Portal{
				{Name: "India IPO", URL: "https://ipindiaonline.gov.in/epatentfiling/"},
				{Name: "USPTO", URL: "https://www.uspto.gov/patents/apply/filing-online"},
			},
		},
	}
}

// Validate checks field lengths and values.
// Called by LoadConfig, but available to callers that build a Config in code.
func (c *Config) Validate() error {
	if err := validateFieldLength("title", c.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("baseDir", c.BaseDir, MaxPathLength); err != nil {
		return err
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout: %v", ErrInvalidConfig, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: timeout: must be positive, got %s", ErrInvalidConfig, c.Timeout)
		}
	}

	if err := c.validateDocuments(); err != nil {
		return err
	}
	if err := c.validatePage(); err != nil {
		return err
	}

	if err := validateFieldLength("header.text", c.Header.Text, MaxHeaderTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("footer.pageLabel", c.Footer.PageLabel, MaxPageLabelLength); err != nil {
		return err
	}

	for i, f := range c.Fonts {
		field := fmt.Sprintf("fonts[%d]", i)
		if strings.TrimSpace(f.Family) == "" || strings.TrimSpace(f.File) == "" {
			return fmt.Errorf("%w: %s: family and file are required", ErrInvalidConfig, field)
		}
		if err := validateFieldLength(field+".family", f.Family, MaxFontFamilyLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".file", f.File, MaxPathLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("css.extra", c.CSS.Extra, MaxExtraCSSLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Markdown.Engine) {
	case "", EngineTransliterate, EngineGoldmark:
	default:
		return fmt.Errorf("%w: markdown.engine: %q (must be %s or %s)",
			ErrInvalidConfig, c.Markdown.Engine, EngineTransliterate, EngineGoldmark)
	}

	for i, p := range c.Filing.Portals {
		field := fmt.Sprintf("filing.portals[%d]", i)
		if err := validateFieldLength(field+".name", p.Name, MaxPortalNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".url", p.URL, MaxURLLength); err != nil {
			return err
		}
		if p.Name == "" {
			return fmt.Errorf("%w: %s.name: required", ErrInvalidConfig, field)
		}
		if !fileutil.IsURL(p.URL) {
			return fmt.Errorf("%w: %s.url: %q is not an http(s) URL", ErrInvalidConfig, field, p.URL)
		}
	}

	return nil
}

func (c *Config) validateDocuments() error {
	outputs := make(map[string]int, len(c.Documents))
	for i, d := range c.Documents {
		field := fmt.Sprintf("documents[%d]", i)
		if strings.TrimSpace(d.Input) == "" {
			return fmt.Errorf("%w: %s.input: required", ErrInvalidConfig, field)
		}
		if strings.TrimSpace(d.Output) == "" {
			return fmt.Errorf("%w: %s.output: required", ErrInvalidConfig, field)
		}
		if err := validateFieldLength(field+".input", d.Input, MaxPathLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".output", d.Output, MaxPathLength); err != nil {
			return err
		}
		if filepath.Clean(d.Input) == filepath.Clean(d.Output) {
			return fmt.Errorf("%w: %s: output would overwrite input %q", ErrInvalidConfig, field, d.Input)
		}
		out := filepath.Clean(d.Output)
		if j, dup := outputs[out]; dup {
			return fmt.Errorf("%w: %s.output: %q already written by documents[%d]", ErrInvalidConfig, field, d.Output, j)
		}
		outputs[out] = i
	}
	return nil
}

func (c *Config) validatePage() error {
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	switch strings.ToLower(c.Page.Size) {
	case "", "letter", "a4", "legal":
	default:
		return fmt.Errorf("%w: page.size: %q (must be letter, a4, or legal)", ErrInvalidConfig, c.Page.Size)
	}
	switch strings.ToLower(c.Page.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("%w: page.orientation: %q (must be portrait or landscape)", ErrInvalidConfig, c.Page.Orientation)
	}
	if c.Page.Margin != 0 && (c.Page.Margin < 0.25 || c.Page.Margin > 3.0) {
		return fmt.Errorf("%w: page.margin: %.2f (must be between 0.25 and 3.00)", ErrInvalidConfig, c.Page.Margin)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// TimeoutDuration returns the parsed timeout, or 0 when none is set.
// Validate reports malformed values; here they also yield 0.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// applyDefaults fills the fields a config file left empty.
// Documents and portals are taken whole: a file listing its own documents
// replaces the default batch.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.Timeout == "" {
		c.Timeout = def.Timeout
	}
	if len(c.Documents) == 0 {
		c.Documents = def.Documents
	}
	if c.Page.Size == "" {
		c.Page.Size = def.Page.Size
	}
	if c.Page.Orientation == "" {
		c.Page.Orientation = def.Page.Orientation
	}
	if c.Page.Margin == 0 {
		c.Page.Margin = def.Page.Margin
	}
	if c.Header.Text == "" && !c.Header.Disabled {
		c.Header.Text = def.Header.Text
	}
	if c.Footer.PageLabel == "" && !c.Footer.Disabled {
		c.Footer.PageLabel = def.Footer.PageLabel
	}
	if c.Markdown.Engine == "" {
		c.Markdown.Engine = def.Markdown.Engine
	}
	if len(c.Filing.Portals) == 0 {
		c.Filing.Portals = def.Filing.Portals
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in SearchPaths.
// Fields the file leaves empty take their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists, in order, the files LoadConfig tries for a config name:
// name.yaml and name.yml in the current directory, then in
// <user config dir>/patent2pdf/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
