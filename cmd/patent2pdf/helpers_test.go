package main

// Notes:
// - Test infrastructure shared by the driver tests: a scripted converter and
//   an Environment writing to buffers. Not under test itself.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/taurus-ai/patent2pdf"
	"github.com/taurus-ai/patent2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

const mockHTML = "<!DOCTYPE html>\n<html>\n<head>\n<title>t</title>\n</head>\n<body>\n<h1>Claims</h1>\n<p>x</p>\n</body>\n</html>\n"

// mockConverter converts every input unless its Markdown is listed in failOn.
type mockConverter struct {
	failOn map[string]error
	inputs []patent2pdf.Input
	closed bool
}

func (m *mockConverter) Convert(_ context.Context, in patent2pdf.Input) (*patent2pdf.ConvertResult, error) {
	m.inputs = append(m.inputs, in)
	if err, ok := m.failOn[in.Markdown]; ok {
		return nil, err
	}
	res := &patent2pdf.ConvertResult{HTML: []byte(mockHTML)}
	if !in.HTMLOnly {
		res.PDF = []byte("%PDF-1.7 mock")
	}
	return res, nil
}

func (m *mockConverter) Close() error {
	m.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	conv   *mockConverter
}

// newTestEnv returns an Environment whose executable lives in exeDir and
// whose converter is conv.
func newTestEnv(t *testing.T, exeDir string, conv *mockConverter) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		conv:   conv,
	}
	te.Environment = &Environment{
		Now:        func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
		Stdout:     te.stdout,
		Stderr:     te.stderr,
		Executable: func() (string, error) { return filepath.Join(exeDir, "patent2pdf"), nil },
		NewConverter: func(...patent2pdf.Option) (CLIConverter, error) {
			return conv, nil
		},
	}
	return te
}

// defaultInputs returns the input file names of the built-in batch.
func defaultInputs() []string {
	var names []string
	for _, d := range config.DefaultConfig().Documents {
		names = append(names, d.Input)
	}
	return names
}

// writeInputs creates each named file in dir with its name as content.
func writeInputs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(path, []byte(name), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
}
