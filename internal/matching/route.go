package matching

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/getmockd/mockadapter/pkg/match"
)

type routeKind int

const (
	routeAny routeKind = iota
	routeLiteral
	routeRegexp
	routeMatcher
	routeNever
)

// Route is the compiled, immutable form of a route pattern.
type Route struct {
	kind    routeKind
	literal string
	re      *regexp.Regexp
	matcher match.Matcher
	source  any
}

// CompileRoute compiles a route pattern. Accepted patterns:
//   - nil: matches every URL
//   - string: literal, or an anchored regular expression when known route
//     parameters are configured (every known token is replaced by a
//     capturing group of its fragment)
//   - *regexp.Regexp: used as-is
//   - match.Matcher: asked about the URL
//
// An error is returned for unsupported pattern types and for strings that do
// not compile once parameters are substituted.
func CompileRoute(pattern any, known RouteParams) (*Route, error) {
	switch p := pattern.(type) {
	case nil:
		return &Route{kind: routeAny}, nil
	case string:
		if known == nil {
			return &Route{kind: routeLiteral, literal: p, source: p}, nil
		}
		expanded := p
		for _, token := range known.tokens() {
			expanded = strings.ReplaceAll(expanded, token, "("+known[token]+")")
		}
		re, err := regexp.Compile("^" + expanded + "$")
		if err != nil {
			return nil, fmt.Errorf("invalid route pattern %q: %w", p, err)
		}
		return &Route{kind: routeRegexp, re: re, source: p}, nil
	case *regexp.Regexp:
		if p == nil {
			return &Route{kind: routeAny}, nil
		}
		return &Route{kind: routeRegexp, re: p, source: p}, nil
	case match.Matcher:
		return &Route{kind: routeMatcher, matcher: p, source: p}, nil
	default:
		return nil, fmt.Errorf("unsupported route pattern type %T", pattern)
	}
}

// Never returns a route that matches nothing. It stands in for patterns that
// failed to compile so that their handler can still be registered and
// replaced.
func Never(pattern any) *Route {
	return &Route{kind: routeNever, source: pattern}
}

// Source returns the pattern the route was compiled from.
func (r *Route) Source() any {
	return r.source
}

// UsesLiteral reports whether the pattern was a plain string, which is the
// only form route parameters can be extracted from.
func (r *Route) UsesLiteral() bool {
	_, ok := r.source.(string)
	return ok
}

// String returns a printable form of the route.
func (r *Route) String() string {
	switch r.kind {
	case routeAny:
		return "*"
	case routeLiteral:
		return r.literal
	case routeRegexp:
		return r.re.String()
	default:
		return fmt.Sprint(r.source)
	}
}

// MatchURL reports whether the route accepts url, either alone or combined
// with baseURL.
func (r *Route) MatchURL(url, baseURL string) bool {
	combined := CombineURLs(baseURL, url)
	switch r.kind {
	case routeAny:
		return true
	case routeLiteral:
		return IsURLMatching(url, r.literal) || IsURLMatching(combined, r.literal)
	case routeRegexp:
		return r.re.MatchString(url) || r.re.MatchString(combined)
	case routeMatcher:
		return r.matcher.Match(url) || r.matcher.Match(combined)
	default:
		return false
	}
}

// Equal reports whether two routes were compiled from equivalent patterns.
// Regular expressions compare by source text; matchers compare by identity.
func (r *Route) Equal(other *Route) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.kind != other.kind {
		return false
	}
	switch r.kind {
	case routeAny:
		return true
	case routeLiteral:
		return r.literal == other.literal
	case routeRegexp:
		return r.re.String() == other.re.String()
	case routeMatcher:
		return sameValue(r.matcher, other.matcher) || sameDescription(r.matcher, other.matcher)
	default:
		return fmt.Sprint(r.source) == fmt.Sprint(other.source)
	}
}

// sameDescription reports whether two matchers of the same type describe
// themselves identically through fmt.Stringer.
func sameDescription(a, b match.Matcher) bool {
	sa, ok := a.(fmt.Stringer)
	if !ok {
		return false
	}
	sb, ok := b.(fmt.Stringer)
	if !ok || reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return sa.String() == sb.String()
}

// sameValue compares two values with == when their dynamic type allows it.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
