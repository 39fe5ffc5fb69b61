// Package bootstrap builds the components shared by the CLI and the server
// from a loaded configuration.
package bootstrap

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/damon-houk/cbr-currency-exporter/internal/config"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/api"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/db"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/format"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
)

// NewLogger creates the operator logger described by cfg, writing to w
// (stderr when nil), and installs it as the default logger.
func NewLogger(name string, cfg config.Log, w io.Writer) logger.Logger {
	if w == nil {
		w = os.Stderr
	}

	log := logger.New(logger.Options{
		Name:   name,
		Output: w,
		Level:  logger.ParseLevel(cfg.Level),
		JSON:   cfg.JSON,
	})
	logger.SetDefaultLogger(log)

	return log
}

// NewHTTPClient returns the client used for upstream requests
func NewHTTPClient(cfg config.Source) *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second}
}

// NewProvider creates the upstream data source
func NewProvider(cfg config.Source, log logger.Logger) *api.CBRClient {
	return api.NewCBRClient(cfg.URL, NewHTTPClient(cfg), log)
}

// NewAdapters creates one adapter per format name, in the given order
func NewAdapters(names []string, provider service.RecordProvider, log logger.Logger) ([]format.Adapter, error) {
	if len(names) == 0 {
		names = format.Names()
	}

	adapters := make([]format.Adapter, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		a, err := format.New(name, provider, log)
		if err != nil {
			return nil, err
		}
		if seen[a.Format()] {
			return nil, fmt.Errorf("format %q listed twice", a.Format())
		}
		seen[a.Format()] = true
		adapters = append(adapters, a)
	}

	return adapters, nil
}

// OpenArchive opens the snapshot archive. The caller closes the returned DB.
func OpenArchive(cfg config.Archive) (*db.BadgerSnapshotRepository, *badger.DB, error) {
	badgerDB, err := db.OpenBadger(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	return db.NewBadgerSnapshotRepository(badgerDB), badgerDB, nil
}
