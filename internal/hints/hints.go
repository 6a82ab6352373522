// Package hints provides actionable follow-ups for common failures.
// Every hint is rendered as "\n  hint: <text>" so callers can append it to an
// error line unchanged.
package hints

import (
	"os"
	"strings"

	"github.com/taurus-ai/patent2pdf/internal/fileutil"
)

// IsInContainer reports whether the process runs inside a Docker container.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests the go-rod environment variables relevant to
// the current machine when Chrome cannot be launched.
func ForBrowserConnect() string {
	var parts []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		parts = append(parts, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	return format(strings.Join(parts, "; "))
}

// ForTimeout suggests raising the render timeout.
func ForTimeout() string {
	return format("long specifications may need more time, use --timeout 2m")
}

// ForMissingInput explains where relative document paths are looked up.
func ForMissingInput(baseDir string) string {
	if baseDir == "" {
		return ""
	}
	return format("relative paths are resolved against " + baseDir + ", use --dir to change it")
}

// ForConfigNotFound points at the flag and, when one was searched, the user
// config location.
func ForConfigNotFound(searched []string) string {
	hint := "use --config /path/to/patents.yaml"
	for _, p := range searched {
		if strings.Contains(filepathSlash(p), "/patent2pdf/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForFontNotFound lists what a font entry may contain.
func ForFontNotFound() string {
	return format("fonts[].file takes a font file path or a file name installed on the system (.ttf, .otf, .ttc)")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
