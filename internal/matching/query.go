package matching

import "net/url"

// QueryValues flattens query parameters into the shape used for comparison:
// a single string per key, or []any for repeated keys.
func QueryValues(params url.Values) map[string]any {
	out := make(map[string]any, len(params))
	for key, values := range params {
		out[key] = flatten(values)
	}
	return out
}
