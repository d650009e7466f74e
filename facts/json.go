package facts

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/derivo/derivo-go/value"
)

// FromJSON builds a fact context from a JSON object. Scalars and arrays map
// directly onto value variants; nested objects are flattened to dotted keys
// ({"customer":{"age":25}} becomes customer.age). An object inside an array
// has no value representation and is rejected.
func FromJSON(data []byte) (*Facts, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("top-level JSON value must be an object")
	}

	f := New()
	if err := flattenObject("", doc, f); err != nil {
		return nil, err
	}
	return f, nil
}

func flattenObject(prefix string, obj gjson.Result, f *Facts) error {
	var ferr error
	obj.ForEach(func(key, val gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		if val.IsObject() {
			ferr = flattenObject(name, val, f)
			return ferr == nil
		}
		v, err := toValue(val)
		if err != nil {
			ferr = fmt.Errorf("attribute %q: %w", name, err)
			return false
		}
		f.Set(name, v)
		return true
	})
	return ferr
}

func toValue(r gjson.Result) (value.Value, error) {
	switch {
	case r.Type == gjson.Null:
		return value.NewNull(), nil
	case r.Type == gjson.True:
		return value.NewBool(true), nil
	case r.Type == gjson.False:
		return value.NewBool(false), nil
	case r.Type == gjson.String:
		return value.NewString(r.String()), nil
	case r.Type == gjson.Number:
		// A literal without a fraction or exponent is an integer.
		if !strings.ContainsAny(r.Raw, ".eE") {
			return value.NewInt(r.Int()), nil
		}
		return value.NewNumber(r.Float()), nil
	case r.IsArray():
		var items []value.Value
		var ferr error
		r.ForEach(func(_, el gjson.Result) bool {
			if el.IsObject() {
				ferr = fmt.Errorf("objects inside arrays are not representable")
				return false
			}
			v, err := toValue(el)
			if err != nil {
				ferr = err
				return false
			}
			items = append(items, v)
			return true
		})
		if ferr != nil {
			return value.Value{}, ferr
		}
		return value.NewList(items...), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported JSON value %s", r.Raw)
	}
}
