// Package facts holds the name→value context an evaluation runs against.
//
// A Facts instance is the mutable state of exactly one resolution run; it is
// never shared across concurrent runs. Insertion order is irrelevant to
// evaluation but is preserved for diagnostics and JSON output.
package facts

import (
	"bytes"
	"encoding/json"

	"github.com/derivo/derivo-go/value"
)

// Facts maps attribute names to values.
type Facts struct {
	values map[string]value.Value
	order  []string
}

// New creates an empty fact context.
func New() *Facts {
	return &Facts{values: make(map[string]value.Value)}
}

// Get returns the value for name. The second return is false when the
// attribute is absent.
func (f *Facts) Get(name string) (value.Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Has reports whether name is present.
func (f *Facts) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Set stores a value under name, keeping first-insertion order.
func (f *Facts) Set(name string, v value.Value) {
	if _, ok := f.values[name]; !ok {
		f.order = append(f.order, name)
	}
	f.values[name] = v
}

// Len returns the number of attributes.
func (f *Facts) Len() int {
	return len(f.values)
}

// Names returns the attribute names in insertion order.
func (f *Facts) Names() []string {
	names := make([]string, len(f.order))
	copy(names, f.order)
	return names
}

// Clone returns an independent copy. Values are immutable, so a shallow
// copy of the map suffices.
func (f *Facts) Clone() *Facts {
	c := New()
	if f == nil {
		return c
	}
	for _, name := range f.order {
		c.Set(name, f.values[name])
	}
	return c
}

// MarshalJSON emits the facts as a JSON object in insertion order.
func (f *Facts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range f.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
