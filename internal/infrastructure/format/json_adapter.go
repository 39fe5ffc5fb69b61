package format

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
)

const jsonIndent = "    "

// JSONAdapter renders records as an indented JSON array
type JSONAdapter struct {
	base
}

var (
	_ Adapter      = (*JSONAdapter)(nil)
	_ TextRenderer = (*JSONAdapter)(nil)
)

// NewJSONAdapter creates a new JSON adapter
func NewJSONAdapter(provider service.RecordProvider, log logger.Logger) *JSONAdapter {
	return &JSONAdapter{base: newBase(provider, log)}
}

func (a *JSONAdapter) Format() string    { return "json" }
func (a *JSONAdapter) Extension() string { return "json" }

// Render fetches the records and returns them as an ASCII-only JSON array with 4-space indentation
func (a *JSONAdapter) Render(ctx context.Context) (string, error) {
	return EncodeJSON(a.provider.Fetch(ctx))
}

// Persist renders the records and writes them to path
func (a *JSONAdapter) Persist(ctx context.Context, path string) error {
	doc, err := a.Render(ctx)
	if err != nil {
		return err
	}
	return a.writeFile(path, a.Format(), []byte(doc))
}

// EncodeJSON renders a record set as an indented JSON array. Output is pure
// ASCII: characters above U+007F are written as \uXXXX escapes (surrogate
// pairs outside the BMP) and HTML characters are left as they are.
func EncodeJSON(records entity.RecordSet) (string, error) {
	if records == nil {
		records = entity.RecordSet{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("failed to encode json: %w", err)
	}

	return asciiEscape(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// asciiEscape rewrites every non-ASCII rune of an encoded JSON document as a
// \uXXXX escape. Such runes only occur inside strings, so the document stays valid.
func asciiEscape(doc []byte) string {
	var sb strings.Builder
	sb.Grow(len(doc))

	for len(doc) > 0 {
		if doc[0] < utf8.RuneSelf {
			sb.WriteByte(doc[0])
			doc = doc[1:]
			continue
		}

		r, size := utf8.DecodeRune(doc)
		doc = doc[size:]
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&sb, "\\u%04x\\u%04x", hi, lo)
			continue
		}
		fmt.Fprintf(&sb, "\\u%04x", r)
	}

	return sb.String()
}
