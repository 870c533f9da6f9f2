package sphinxql

import (
	"reflect"
	"strings"
)

// composeValue renders one value for embedding next to the named column:
// NULL for nil, the fragment for a raw expression, a parenthesized element
// list for slices (the multi-value attribute form), otherwise a bound
// placeholder holding the schema-coerced value.
func composeValue(schemas []*IndexSchema, column string, value any, params Params) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case *Expr:
		params.merge(v.Params)
		return v.Fragment
	}
	if list, ok := asSlice(value); ok {
		parts := make([]string, 0, len(list))
		for _, el := range list {
			if e, ok := el.(*Expr); ok {
				params.merge(e.Params)
				parts = append(parts, e.Fragment)
				continue
			}
			parts = append(parts, params.bind(typecastValue(schemas, column, el)))
		}
		return "(" + strings.Join(parts, ",") + ")"
	}
	return params.bind(typecastValue(schemas, column, value))
}

// asSlice normalizes slice-typed values to []any. Byte slices stay scalar;
// they are blobs, not value lists.
func asSlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []byte:
		return nil, false
	case []string:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out, true
	case []int:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out, true
	case []int64:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out, true
	case []float64:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
