package matching

import (
	"net/http"
	"net/url"
)

// Rule is the request predicate of a registered handler.
type Rule struct {
	Route   *Route
	Body    any
	Headers any
}

// Target is the concrete outgoing request a rule is evaluated against.
type Target struct {
	Method  string
	URL     string
	BaseURL string
	Body    []byte
	Params  url.Values
	Header  http.Header
}

// Match reports whether every predicate of rule accepts target: URL, then
// body or query parameters, then headers.
func Match(rule Rule, target Target) bool {
	if rule.Route == nil || !rule.Route.MatchURL(target.URL, target.BaseURL) {
		return false
	}
	if !IsBodyOrParamsMatching(target.Method, target.Body, QueryValues(target.Params), rule.Body) {
		return false
	}
	return IsObjectMatching(HeaderValues(target.Header), rule.Headers)
}
