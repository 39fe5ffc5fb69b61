// Package format renders record sets into the supported output formats and
// persists them to files.
package format

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/telemetry"
)

// ErrUnknownFormat is returned by New for a format with no registered adapter
var ErrUnknownFormat = errors.New("unknown format")

// Adapter renders the records of one provider into one format and writes them to a file
type Adapter interface {
	// Format is the registry name of the adapter
	Format() string
	// Extension is the file extension used for the default output file
	Extension() string
	// Persist renders a fresh record set and writes it to path, overwriting it
	Persist(ctx context.Context, path string) error
}

// TextRenderer is implemented by adapters whose rendering is a text document
type TextRenderer interface {
	Render(ctx context.Context) (string, error)
}

type constructor func(provider service.RecordProvider, log logger.Logger) Adapter

// registry maps format names to constructors, in reference order
var (
	registry = map[string]constructor{
		"yaml": func(p service.RecordProvider, l logger.Logger) Adapter { return NewYAMLAdapter(p, l) },
		"json": func(p service.RecordProvider, l logger.Logger) Adapter { return NewJSONAdapter(p, l) },
		"csv":  func(p service.RecordProvider, l logger.Logger) Adapter { return NewCSVAdapter(p, l) },
	}
	names = []string{"yaml", "json", "csv"}
)

// Names lists the registered formats
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// New creates the adapter registered under name, bound to provider
func New(name string, provider service.RecordProvider, log logger.Logger) (Adapter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "yml" {
		key = "yaml"
	}
	ctor, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, name, strings.Join(names, ", "))
	}
	return ctor(provider, log), nil
}

// base carries what every adapter shares: the provider it wraps and the logger
// used for the operator-facing confirmation.
type base struct {
	provider service.RecordProvider
	logger   logger.Logger
}

func newBase(provider service.RecordProvider, log logger.Logger) base {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return base{provider: provider, logger: log}
}

// writeFile writes data to path and confirms it. A failed write is returned
// as is and may leave a partial file behind.
func (b base) writeFile(path, format string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}

	b.confirm(path, format)
	return nil
}

func (b base) confirm(path, format string) {
	telemetry.IncrPersisted(format)
	b.logger.Info("Data successfully saved", map[string]interface{}{
		"path":   path,
		"format": format,
	})
}
