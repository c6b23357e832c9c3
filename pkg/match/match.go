package match

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Matcher is an asymmetric expectation.
type Matcher interface {
	// Match reports whether actual satisfies the expectation.
	Match(actual any) bool
}

// Func adapts a plain predicate to a Matcher.
type Func func(actual any) bool

// Match implements Matcher.
func (f Func) Match(actual any) bool {
	if f == nil {
		return false
	}
	return f(actual)
}

// Any matches every value that is present (not nil).
func Any() Matcher {
	return Func(func(actual any) bool { return actual != nil })
}

// Not inverts m.
func Not(m Matcher) Matcher {
	return Func(func(actual any) bool { return !m.Match(actual) })
}

// All matches when every one of ms matches.
func All(ms ...Matcher) Matcher {
	return Func(func(actual any) bool {
		for _, m := range ms {
			if !m.Match(actual) {
				return false
			}
		}
		return true
	})
}

// EqualTo matches values equal to expected in the sense of Equal.
func EqualTo(expected any) Matcher {
	return Func(func(actual any) bool { return Equal(actual, expected) })
}

// Equal reports whether actual deep-equals expected once both are reduced to
// their JSON-normalized form. Matchers found anywhere inside expected are
// invoked on the corresponding part of actual.
func Equal(actual, expected any) bool {
	return equalNormalized(Normalize(actual), Normalize(expected))
}

func equalNormalized(actual, expected any) bool {
	if m, ok := expected.(Matcher); ok {
		return m.Match(actual)
	}

	switch exp := expected.(type) {
	case nil:
		return actual == nil
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok || len(act) != len(exp) {
			return false
		}
		for k, ev := range exp {
			av, ok := act[k]
			if !ok || !equalNormalized(av, ev) {
				return false
			}
		}
		return true
	case []any:
		act, ok := actual.([]any)
		if !ok || len(act) != len(exp) {
			return false
		}
		for i := range exp {
			if !equalNormalized(act[i], exp[i]) {
				return false
			}
		}
		return true
	case float64:
		act, ok := actual.(float64)
		return ok && act == exp
	case string:
		act, ok := actual.(string)
		return ok && act == exp
	case bool:
		act, ok := actual.(bool)
		return ok && act == exp
	default:
		return reflect.DeepEqual(actual, expected)
	}
}

// Normalize converts v into the generic shapes produced by encoding/json
// (map[string]any, []any, float64, string, bool, nil). Matchers are kept
// as-is so they can be invoked later. Byte slices become strings.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case Matcher:
		return val
	case string, bool, float64:
		return val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return f
	case []byte:
		return string(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	}

	if f, ok := toFloat64(v); ok {
		return f
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}

	// Structs and anything else: round-trip through encoding/json.
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return string(data)
	}
	return out
}

// toFloat64 attempts to convert a numeric value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	default:
		return 0, false
	}
}

// decodeJSON returns actual as generic JSON data, decoding it first when it
// is a raw string or byte slice.
func decodeJSON(actual any) (any, bool) {
	var raw []byte
	switch v := actual.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return Normalize(actual), true
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false
	}
	return data, true
}

// asString returns actual as a string for text-oriented matchers.
func asString(actual any) (string, bool) {
	switch v := actual.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case nil:
		return "", false
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}
