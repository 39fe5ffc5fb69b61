package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotAnObject is returned when a record is decoded from a JSON value that is not an object
var ErrNotAnObject = errors.New("json value is not an object")

// Record is one exchange-rate entry: an ordered mapping from field name to value.
// Field order follows the order in which fields were first set.
type Record struct {
	keys   []string
	values map[string]interface{}
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{values: make(map[string]interface{})}
}

// Set assigns a field. An existing field keeps its position.
func (r *Record) Set(key string, value interface{}) {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value of a field
func (r *Record) Get(key string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in order
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of fields
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// MarshalJSON writes the record as a JSON object with fields in record order
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := marshalValue(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := marshalValue(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// marshalValue is json.Marshal without HTML escaping, so "&" stays "&"
func marshalValue(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON reads a JSON object keeping its key order.
// Numbers are kept as json.Number so their literal text survives.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotAnObject
	}

	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}

	*r = *decoded
	return nil
}

// decodeObject reads the members of an object whose opening brace was already consumed
func decodeObject(dec *json.Decoder) (*Record, error) {
	rec := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		rec.Set(key, value)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}

	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		items := make([]interface{}, 0)
		for dec.More() {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// RecordSet is the ordered sequence of records produced by one fetch
type RecordSet []*Record
