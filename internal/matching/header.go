package matching

import (
	"net/http"
	"net/textproto"

	"github.com/getmockd/mockadapter/pkg/match"
)

// HeaderValues flattens headers into the shape used for comparison:
// canonical key to a single string, or []any for repeated values.
func HeaderValues(headers http.Header) map[string]any {
	out := make(map[string]any, len(headers))
	for key, values := range headers {
		out[textproto.CanonicalMIMEHeaderKey(key)] = flatten(values)
	}
	return out
}

// NormalizeHeaderRequirement canonicalizes the keys of a header expectation
// so that it compares against HeaderValues regardless of the caller's casing.
// Matchers and nil are returned unchanged.
func NormalizeHeaderRequirement(required any) any {
	switch required.(type) {
	case nil, match.Matcher:
		return required
	}
	obj, ok := match.Normalize(required).(map[string]any)
	if !ok {
		return required
	}
	out := make(map[string]any, len(obj))
	for key, value := range obj {
		out[textproto.CanonicalMIMEHeaderKey(key)] = value
	}
	return out
}

func flatten(values []string) any {
	if len(values) == 1 {
		return values[0]
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
