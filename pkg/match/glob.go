package match

import "github.com/bmatcuk/doublestar/v4"

type globMatcher struct {
	pattern string
	valid   bool
}

// Glob matches strings against a doublestar pattern, where "*" matches
// within one path segment and "**" across segments. Used as a route pattern
// it is tried against the request path and the full URL:
//
//	a.OnGet(match.Glob("/users/*/posts/**")).Reply(200, nil, nil)
//
// An invalid pattern never matches.
func Glob(pattern string) Matcher {
	return &globMatcher{pattern: pattern, valid: doublestar.ValidatePattern(pattern)}
}

func (g *globMatcher) Match(actual any) bool {
	if !g.valid {
		return false
	}
	s, ok := asString(actual)
	if !ok {
		return false
	}
	matched, err := doublestar.Match(g.pattern, s)
	return err == nil && matched
}

func (g *globMatcher) String() string {
	return "glob:" + g.pattern
}
