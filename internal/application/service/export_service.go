// Package service internal/application/service/export_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/format"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
)

// ExportOptions controls where an export writes and what it prints first
type ExportOptions struct {
	// OutDir is the directory the files are written to
	OutDir string
	// BaseName is the file name without extension
	BaseName string
	// SampleFormat names the adapter whose rendering is sampled before it is persisted.
	// Empty disables the sample.
	SampleFormat string
	// SampleChars is the number of characters of the sample
	SampleChars int
}

// DefaultExportOptions returns the options of the plain one-shot run
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		OutDir:       ".",
		BaseName:     "currencies",
		SampleFormat: "yaml",
		SampleChars:  200,
	}
}

// ExportService drives one export run: every adapter, in order, renders and
// persists its own fresh fetch.
type ExportService struct {
	adapters []format.Adapter
	opts     ExportOptions
	out      io.Writer
	logger   logger.Logger
}

// NewExportService creates a new export service
func NewExportService(adapters []format.Adapter, opts ExportOptions, out io.Writer, log logger.Logger) *ExportService {
	if out == nil {
		out = os.Stdout
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if opts.BaseName == "" {
		opts.BaseName = "currencies"
	}

	return &ExportService{
		adapters: adapters,
		opts:     opts,
		out:      out,
		logger:   log,
	}
}

// Path returns the file an adapter is persisted to
func (s *ExportService) Path(a format.Adapter) string {
	return filepath.Join(s.opts.OutDir, s.opts.BaseName+"."+a.Extension())
}

// Run persists every adapter. It stops at the first failure and returns it.
func (s *ExportService) Run(ctx context.Context) error {
	s.logger.Debug("Starting export", map[string]interface{}{
		"out_dir":  s.opts.OutDir,
		"adapters": len(s.adapters),
	})

	for _, a := range s.adapters {
		if a.Format() == s.opts.SampleFormat && s.opts.SampleChars > 0 {
			if err := s.printSample(ctx, a); err != nil {
				return err
			}
		}

		path := s.Path(a)
		if err := a.Persist(ctx, path); err != nil {
			s.logger.Error("Failed to persist currency data", map[string]interface{}{
				"format": a.Format(),
				"path":   path,
				"error":  err.Error(),
			})
			return fmt.Errorf("failed to persist %s: %w", a.Format(), err)
		}
	}

	return nil
}

// printSample writes the first SampleChars characters of the adapter's rendering
func (s *ExportService) printSample(ctx context.Context, a format.Adapter) error {
	r, ok := a.(format.TextRenderer)
	if !ok {
		return nil
	}

	text, err := r.Render(ctx)
	if err != nil {
		return fmt.Errorf("failed to render %s sample: %w", a.Format(), err)
	}

	_, err = fmt.Fprintf(s.out, "--- %s DATA SAMPLE ---\n%s...\n", strings.ToUpper(a.Format()), truncate(text, s.opts.SampleChars))
	return err
}

// truncate cuts s to at most n characters (not bytes)
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
