// Package value defines the closed runtime value type of the rule language.
//
// A Value is immutable once constructed; operators and builtin functions
// always produce a new Value. Equality and ordering are only defined between
// compatible kinds; the ComparableWith and Ordered predicates let callers
// enforce this before comparing.
package value

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant a Value holds.
type Kind int

const (
	// KindNull is the null value.
	KindNull Kind = iota

	// KindString is a text value.
	KindString

	// KindNumber is a general floating-point number.
	KindNumber

	// KindInteger is a whole number.
	KindInteger

	// KindFloat is an explicit floating-point number.
	KindFloat

	// KindBoolean is true or false.
	KindBoolean

	// KindRegex is a regular expression pattern, stored as opaque text.
	KindRegex

	// KindList is an ordered, heterogeneous sequence of values.
	KindList
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindRegex:
		return "regex"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is one runtime value of the rule language.
type Value struct {
	kind  Kind
	str   string // KindString, KindRegex
	num   float64
	i     int64
	b     bool
	items []Value
}

// NewNull creates the null value.
func NewNull() Value {
	return Value{kind: KindNull}
}

// NewString creates a string value.
func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

// NewNumber creates a general floating-point number value.
func NewNumber(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// NewInt creates an integer value.
func NewInt(i int64) Value {
	return Value{kind: KindInteger, i: i}
}

// NewFloat creates a float value.
func NewFloat(f float64) Value {
	return Value{kind: KindFloat, num: f}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// NewRegex creates a regex value holding the given pattern text.
// The pattern is not compiled here; compilation happens at match time.
func NewRegex(pattern string) Value {
	return Value{kind: KindRegex, str: pattern}
}

// NewList creates a list value. The items slice is copied.
func NewList(items ...Value) Value {
	copied := make([]Value, len(items))
	copy(copied, items)
	return Value{kind: KindList, items: copied}
}

// Kind returns the variant this value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the text of a string value.
func (v Value) Str() string {
	return v.str
}

// Pattern returns the pattern text of a regex value.
func (v Value) Pattern() string {
	return v.str
}

// Int returns the integer value.
func (v Value) Int() int64 {
	return v.i
}

// Bool returns the boolean value.
func (v Value) Bool() bool {
	return v.b
}

// Items returns the elements of a list value. The returned slice must not
// be mutated.
func (v Value) Items() []Value {
	return v.items
}

// IsNumeric reports whether the value is a number, integer or float.
func (v Value) IsNumeric() bool {
	return v.kind == KindNumber || v.kind == KindInteger || v.kind == KindFloat
}

// AsFloat coerces a numeric value to float64. The second return is false
// when the value is not numeric.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindNumber, KindFloat:
		return v.num, true
	default:
		return 0, false
	}
}

// ComparableWith reports whether equality between v and o is defined:
// both the same kind, or both numeric.
func (v Value) ComparableWith(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		return true
	}
	return v.kind == o.kind
}

// Ordered reports whether ordering between v and o is defined: both
// numeric, or both strings (lexicographic).
func (v Value) Ordered(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		return true
	}
	return v.kind == KindString && o.kind == KindString
}

// Equal compares two values. Callers must first establish compatibility
// with ComparableWith; Equal returns false for incompatible kinds.
func (v Value) Equal(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		return a == b
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString, KindRegex:
		return v.str == o.str
	case KindBoolean:
		return v.b == o.b
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].ComparableWith(o.items[i]) || !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Less reports whether v orders before o. Callers must first establish
// orderability with Ordered.
func (v Value) Less(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		return a < b
	}
	return v.str < o.str
}

// String renders the value for diagnostics and CONCAT stringification.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindRegex:
		return "/" + v.str + "/"
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindNumber, KindFloat:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindList:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}

// MarshalJSON maps the value onto its natural JSON representation. Regex
// values serialize as their pattern text.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString, KindRegex:
		return json.Marshal(v.str)
	case KindInteger:
		return json.Marshal(v.i)
	case KindNumber, KindFloat:
		return json.Marshal(v.num)
	case KindBoolean:
		return json.Marshal(v.b)
	case KindList:
		return json.Marshal(v.items)
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %s", v.kind)
	}
}
