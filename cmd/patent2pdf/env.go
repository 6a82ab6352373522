package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/taurus-ai/patent2pdf"
)

// CLIConverter is the part of the converter the driver uses.
type CLIConverter interface {
	Convert(ctx context.Context, input patent2pdf.Input) (*patent2pdf.ConvertResult, error)
	Close() error
}

// Compile-time interface implementation check.
var _ CLIConverter = (*patent2pdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	Executable   func() (string, error)
	NewConverter func(opts ...patent2pdf.Option) (CLIConverter, error)
	SetMaxProcs  func(verbose bool, w io.Writer) // nil = leave GOMAXPROCS alone
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Executable:   os.Executable,
		NewConverter: newConverter,
		SetMaxProcs:  setMaxProcs,
	}
}

func newConverter(opts ...patent2pdf.Option) (CLIConverter, error) {
	return patent2pdf.NewConverter(opts...)
}
