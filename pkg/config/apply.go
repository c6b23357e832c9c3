package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/getmockd/mockadapter/internal/matching"
	"github.com/getmockd/mockadapter/pkg/adapter"
	"github.com/getmockd/mockadapter/pkg/match"
)

// AdapterOptions converts o into adapter options. A nil receiver yields the
// defaults.
func (o *Options) AdapterOptions(log *slog.Logger) *adapter.Options {
	opts := &adapter.Options{Logger: log}
	if o == nil {
		return opts
	}
	opts.BaseURL = o.BaseURL
	opts.DelayResponse = o.DelayResponse.Duration()
	opts.Timeout = o.Timeout.Duration()
	opts.TimeoutErrorMessage = o.TimeoutErrorMessage
	opts.KnownRouteParams = o.KnownRouteParams
	if o.AcceptAnyStatus {
		opts.ValidateStatus = adapter.AcceptAnyStatus
	}
	if o.OnNoMatch == "passthrough" {
		opts.OnNoMatch = func(*adapter.Request) (*adapter.Response, error) {
			return nil, adapter.ErrPassthrough
		}
	}
	return opts
}

// NewAdapter creates an adapter configured by c, installs it on client (which
// may be nil) and registers every route.
func NewAdapter(client *http.Client, c *Collection, log *slog.Logger) (*adapter.Adapter, error) {
	a := adapter.New(client, c.Options.AdapterOptions(log))
	if err := Apply(a, c); err != nil {
		a.Restore()
		return nil, err
	}
	return a, nil
}

// Apply registers the routes of c on a in file order.
func Apply(a *adapter.Adapter, c *Collection) error {
	for i, r := range c.Routes {
		if err := r.register(a); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
	}
	return nil
}

func (r *Route) register(a *adapter.Adapter) error {
	pattern, err := r.Pattern()
	if err != nil {
		return err
	}
	b := a.On(r.Method, pattern).
		WithBody(r.BodyExpectation()).
		WithHeaders(r.HeaderExpectation())

	switch {
	case r.Passthrough:
		b.PassThrough()
	case r.Error != "":
		registerError(b, r.Error, r.Once)
	case r.Reply != nil:
		var headers adapter.Headers
		if len(r.Reply.Headers) > 0 {
			headers = adapter.Headers(r.Reply.Headers)
		}
		if r.Once {
			b.ReplyOnce(r.Reply.Status, r.Reply.Body, headers)
		} else {
			b.Reply(r.Reply.Status, r.Reply.Body, headers)
		}
	default:
		return fmt.Errorf("route %s has no outcome", r.Describe())
	}
	return nil
}

func registerError(b *adapter.RouteBuilder, kind string, once bool) {
	switch {
	case kind == ErrorTimeout && once:
		b.TimeoutOnce()
	case kind == ErrorTimeout:
		b.Timeout()
	case kind == ErrorAbort && once:
		b.AbortRequestOnce()
	case kind == ErrorAbort:
		b.AbortRequest()
	case once:
		b.NetworkErrorOnce()
	default:
		b.NetworkError()
	}
}

// Pattern returns the route pattern in the form adapter.On accepts.
func (r *Route) Pattern() (any, error) {
	switch {
	case r.URL != "":
		return r.URL, nil
	case r.URLPattern != "":
		re, err := regexp.Compile(r.URLPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid urlPattern: %w", err)
		}
		return re, nil
	case r.Glob != "":
		return match.Glob(r.Glob), nil
	default:
		return nil, nil
	}
}

// BodyExpectation returns the body (or query parameter) expectation, or nil.
func (r *Route) BodyExpectation() any {
	method := strings.ToLower(r.Method)
	if len(r.Params) > 0 && (method == "any" || matching.UsesParams(method)) {
		params := make(adapter.Params, len(r.Params))
		for k, v := range r.Params {
			params[k] = queryValue(v)
		}
		return params
	}

	matchers := r.bodyMatchers()
	if len(matchers) == 0 {
		return r.Body
	}
	if r.Body != nil {
		matchers = append([]match.Matcher{match.EqualTo(r.Body)}, matchers...)
	}
	if len(matchers) == 1 {
		return matchers[0]
	}
	return match.All(matchers...)
}

// queryValue converts a fixture scalar to the string form query values take.
func queryValue(v any) any {
	switch val := v.(type) {
	case string, nil:
		return val
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = queryValue(item)
		}
		return out
	default:
		return fmt.Sprint(val)
	}
}

func (r *Route) bodyMatchers() []match.Matcher {
	m := r.Match
	if m == nil {
		return nil
	}
	var out []match.Matcher
	if len(m.JSONPath) > 0 {
		out = append(out, match.JSONPath(m.JSONPath))
	}
	if m.Expr != "" {
		out = append(out, match.Expr(m.Expr))
	}
	if m.Schema != nil {
		out = append(out, match.Schema(m.Schema))
	}
	if len(m.XPath) > 0 {
		out = append(out, match.XPath(m.XPath))
	}
	if m.GraphQL != "" {
		out = append(out, match.GraphQL(m.GraphQL))
	}
	if m.BodyContains != "" {
		out = append(out, match.Contains(m.BodyContains))
	}
	return out
}

// HeaderExpectation returns a matcher requiring the listed headers (other
// headers may be present), or nil.
func (r *Route) HeaderExpectation() any {
	var matchers []match.Matcher
	if len(r.Headers) > 0 {
		required := make(map[string]any, len(r.Headers))
		for k, v := range r.Headers {
			required[http.CanonicalHeaderKey(k)] = v
		}
		matchers = append(matchers, match.ObjectContaining(required))
	}
	if r.Match != nil && len(r.Match.BearerClaims) > 0 {
		matchers = append(matchers, match.BearerClaims(r.Match.BearerClaims))
	}
	switch len(matchers) {
	case 0:
		return nil
	case 1:
		return matchers[0]
	default:
		return match.All(matchers...)
	}
}

// Describe returns a one-line summary such as "GET /users/:id".
func (r *Route) Describe() string {
	target := "*"
	switch {
	case r.URL != "":
		target = r.URL
	case r.URLPattern != "":
		target = "~" + r.URLPattern
	case r.Glob != "":
		target = "glob:" + r.Glob
	}
	return strings.ToUpper(r.Method) + " " + target
}

// Outcome returns a one-line summary of the route's reply.
func (r *Route) Outcome() string {
	var s string
	switch {
	case r.Passthrough:
		s = "passthrough"
	case r.Error != "":
		s = r.Error + " error"
	case r.Reply != nil:
		s = fmt.Sprintf("%d", r.Reply.Status)
	}
	if r.Once {
		s += " (once)"
	}
	return s
}
