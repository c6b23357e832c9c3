package match

import (
	"github.com/ohler55/ojg/jp"
)

type jsonPathMatcher struct {
	conditions map[string]any
}

// JSONPath matches a JSON value when every path expression yields a value
// equal to its expected value. An expected value of the form
// {"exists": true|false} checks for presence instead of equality. Paths that
// select several nodes match when any node is equal.
func JSONPath(conditions map[string]any) Matcher {
	return &jsonPathMatcher{conditions: conditions}
}

func (j *jsonPathMatcher) Match(actual any) bool {
	if len(j.conditions) == 0 {
		return true
	}

	data, ok := decodeJSON(actual)
	if !ok {
		return false
	}

	for path, expected := range j.conditions {
		if !matchSingleJSONPath(path, expected, data) {
			return false
		}
	}
	return true
}

func matchSingleJSONPath(path string, expected any, data any) bool {
	expr, err := jp.ParseString(path)
	if err != nil {
		return false
	}

	results := expr.Get(data)

	if exists, ok := existenceCheck(expected); ok {
		return exists == (len(results) > 0)
	}

	for _, result := range results {
		if Equal(result, expected) {
			return true
		}
	}
	return false
}

// existenceCheck reports whether expected is an {"exists": bool} object and
// returns the requested presence.
func existenceCheck(expected any) (exists bool, ok bool) {
	m, isMap := expected.(map[string]any)
	if !isMap || len(m) != 1 {
		return false, false
	}
	b, isBool := m["exists"].(bool)
	return b, isBool
}
