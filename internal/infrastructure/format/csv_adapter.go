package format

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
)

// ErrUnexpectedField is returned when a record has a field the header does not
var ErrUnexpectedField = errors.New("record has a field not in the header")

// CSVAdapter writes records as delimited text. The header is taken from the
// first record.
type CSVAdapter struct {
	base
}

var _ Adapter = (*CSVAdapter)(nil)

// NewCSVAdapter creates a new CSV adapter
func NewCSVAdapter(provider service.RecordProvider, log logger.Logger) *CSVAdapter {
	return &CSVAdapter{base: newBase(provider, log)}
}

func (a *CSVAdapter) Format() string    { return "csv" }
func (a *CSVAdapter) Extension() string { return "csv" }

// Render returns the fetched records unmodified; serialization happens in Persist
func (a *CSVAdapter) Render(ctx context.Context) entity.RecordSet {
	return a.provider.Fetch(ctx)
}

// Persist writes the records to path. With no records it does nothing at all:
// no file is created and nothing is logged.
func (a *CSVAdapter) Persist(ctx context.Context, path string) error {
	records := a.Render(ctx)
	if len(records) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, records); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write csv file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}

	a.confirm(path, a.Format())
	return nil
}

// Encode writes a header row (keys of the first record, in order) followed by
// one row per record. Rows end in CRLF. Missing fields become empty cells.
// Nothing is written for an empty set.
func Encode(w io.Writer, records entity.RecordSet) error {
	if len(records) == 0 {
		return nil
	}

	header := records[0].Keys()
	known := make(map[string]struct{}, len(header))
	for _, k := range header {
		known[k] = struct{}{}
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(header))
	for i, rec := range records {
		for _, k := range rec.Keys() {
			if _, ok := known[k]; !ok {
				return fmt.Errorf("%w: record %d has %q", ErrUnexpectedField, i, k)
			}
		}
		for j, k := range header {
			v, _ := rec.Get(k)
			cell, err := cellText(v)
			if err != nil {
				return fmt.Errorf("record %d field %q: %w", i, k, err)
			}
			row[j] = cell
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func cellText(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		// nested values are written as compact JSON
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
