package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is a single remote row decoded as a JSON object with its key order
// preserved. encoding/json maps lose ordering, and detection derives column
// order from the sampled object, so rows are decoded token by token.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow builds a row from ordered key/value pairs. Intended for tests and
// adapters; duplicate keys keep their first position with the last value.
func NewRow(pairs ...any) Row {
	r := Row{values: make(map[string]any, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		r.set(key, pairs[i+1])
	}
	return r
}

func (r *Row) set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, seen := r.values[key]; !seen {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Keys returns the column names in wire order.
func (r Row) Keys() []string {
	return r.keys
}

// Value returns the value for a column, nil when absent.
func (r Row) Value(name string) any {
	return r.values[name]
}

// Has reports whether the row carries the column at all (a null value counts).
func (r Row) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.keys)
}

func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row: expected JSON object, got %v", tok)
	}

	r.keys = nil
	r.values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row: expected object key, got %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.set(key, value)
	}

	_, err = dec.Token() // closing brace
	return err
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
