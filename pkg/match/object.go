package match

import (
	"regexp"
	"strings"
)

type objectContaining struct {
	expected map[string]any
}

// ObjectContaining matches a map (JSON object) that has at least the given
// keys, each deep-equal to the expected value. Extra keys are ignored.
func ObjectContaining(expected map[string]any) Matcher {
	return &objectContaining{expected: expected}
}

func (o *objectContaining) Match(actual any) bool {
	act, ok := Normalize(actual).(map[string]any)
	if !ok {
		return false
	}
	for k, ev := range o.expected {
		av, ok := act[k]
		if !ok || !Equal(av, ev) {
			return false
		}
	}
	return true
}

type regexpMatcher struct {
	re *regexp.Regexp
}

// Regexp matches string values against a regular expression (RE2 syntax).
// An invalid pattern never matches.
func Regexp(pattern string) Matcher {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Func(func(any) bool { return false })
	}
	return &regexpMatcher{re: re}
}

func (r *regexpMatcher) Match(actual any) bool {
	s, ok := actual.(string)
	if !ok {
		return false
	}
	return r.re.MatchString(s)
}

// Contains matches string values containing substr.
func Contains(substr string) Matcher {
	return Func(func(actual any) bool {
		s, ok := asString(actual)
		return ok && strings.Contains(s, substr)
	})
}
