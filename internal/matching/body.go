package matching

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/getmockd/mockadapter/pkg/match"
)

// paramsMethods compare query parameters instead of the request body.
var paramsMethods = map[string]bool{
	"get":     true,
	"head":    true,
	"delete":  true,
	"options": true,
}

// ParamsRequirement is implemented by body requirements that describe the
// expected query parameters directly.
type ParamsRequirement interface {
	QueryParams() map[string]any
}

// UsesParams reports whether requests with this method are matched on their
// query parameters rather than their body.
func UsesParams(method string) bool {
	return paramsMethods[strings.ToLower(method)]
}

// paramsOf extracts the query parameter expectation from a body requirement:
// a ParamsRequirement, or an object with a "params" key. Anything else means
// no expectation.
func paramsOf(required any) any {
	switch r := required.(type) {
	case nil:
		return nil
	case ParamsRequirement:
		return r.QueryParams()
	case match.Matcher:
		return nil
	}
	obj, ok := match.Normalize(required).(map[string]any)
	if !ok {
		return nil
	}
	return obj["params"]
}

// IsBodyOrParamsMatching compares query parameters for get, head, delete and
// options requests and the body for every other method.
func IsBodyOrParamsMatching(method string, body []byte, params map[string]any, required any) bool {
	if UsesParams(method) {
		return IsObjectMatching(params, paramsOf(required))
	}
	return IsBodyMatching(body, required)
}

// IsBodyMatching compares the request body, decoded as JSON when possible,
// against required.
func IsBodyMatching(body []byte, required any) bool {
	if required == nil {
		return true
	}
	return IsObjectMatching(ParseBody(body), required)
}

// ParseBody decodes body as JSON. When decoding fails, or yields a falsy value
// (null, false, 0, ""), the raw body is returned as a string instead.
func ParseBody(body []byte) any {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil || isFalsy(parsed) {
		return string(body)
	}
	return parsed
}

func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case float64:
		return val == 0
	case string:
		return val == ""
	default:
		return false
	}
}

// IsObjectMatching compares actual against expected: nil expected always
// matches, a match.Matcher is invoked, anything else is deep-compared on its
// JSON-normalized form.
func IsObjectMatching(actual, expected any) bool {
	if expected == nil {
		return true
	}
	if m, ok := expected.(match.Matcher); ok {
		return m.Match(actual)
	}
	return match.Equal(actual, expected)
}

// SameRequirement reports whether two body or header expectations are
// equivalent. match.Func closures compare by identity, other matchers by
// deep equality, everything else by its normalized form.
func SameRequirement(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	_, am := a.(match.Matcher)
	_, bm := b.(match.Matcher)
	if am || bm {
		_, af := a.(match.Func)
		_, bf := b.(match.Func)
		if af || bf {
			return sameValue(a, b)
		}
		return reflect.DeepEqual(a, b)
	}
	return reflect.DeepEqual(match.Normalize(a), match.Normalize(b))
}
