package adapter

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getmockd/mockadapter/internal/matching"
)

// Params is an expected query-parameter set. Passing it as the second
// argument of OnGet, OnHead, OnDelete or OnOptions compares it against the
// request's query string.
type Params map[string]any

// QueryParams implements matching.ParamsRequirement.
func (p Params) QueryParams() map[string]any {
	return p
}

// Request is the adapter's view of an outgoing request.
type Request struct {
	// Method is the lower-case HTTP method.
	Method string

	// URL is the request path, relative to BaseURL.
	URL string

	// BaseURL is Options.BaseURL when it prefixes the request URL, otherwise
	// the request's scheme and host.
	BaseURL string

	Params url.Values
	Body   []byte
	Header http.Header

	Timeout             time.Duration
	TimeoutErrorMessage string
	ValidateStatus      func(status int) bool

	// RouteParams holds the values captured by known route parameters. It is
	// populated before a reply function runs.
	RouteParams map[string]string

	// HTTPRequest is the intercepted request. Its body has been consumed.
	HTTPRequest *http.Request
}

// FullURL returns BaseURL and URL joined, with the query string.
func (r *Request) FullURL() string {
	full := matching.CombineURLs(r.BaseURL, r.URL)
	if len(r.Params) > 0 {
		full += "?" + r.Params.Encode()
	}
	return full
}

func (r *Request) target() matching.Target {
	return matching.Target{
		Method:  r.Method,
		URL:     r.URL,
		BaseURL: r.BaseURL,
		Body:    r.Body,
		Params:  r.Params,
		Header:  r.Header,
	}
}

type requestDefaults struct {
	baseURL             string
	timeout             time.Duration
	timeoutErrorMessage string
	validateStatus      func(int) bool
}

// newRequest reads the body of r and resolves the adapter's view of it.
func newRequest(r *http.Request, defaults requestDefaults) (*Request, error) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		b, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		body = b
	}

	req := &Request{
		Method:              strings.ToLower(r.Method),
		Body:                body,
		Header:              r.Header.Clone(),
		Timeout:             defaults.timeout,
		TimeoutErrorMessage: defaults.timeoutErrorMessage,
		ValidateStatus:      defaults.validateStatus,
		HTTPRequest:         r,
	}
	if req.Method == "" {
		req.Method = "get"
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if r.URL != nil {
		req.Params = r.URL.Query()
		req.BaseURL, req.URL = splitURL(r.URL, defaults.baseURL)
	}

	if opts, ok := requestOptionsFrom(r.Context()); ok {
		if opts.Timeout != 0 {
			req.Timeout = opts.Timeout
		}
		if opts.TimeoutErrorMessage != "" {
			req.TimeoutErrorMessage = opts.TimeoutErrorMessage
		}
		if opts.ValidateStatus != nil {
			req.ValidateStatus = opts.ValidateStatus
		}
	}
	return req, nil
}

// splitURL separates u into a base URL and the path relative to it.
func splitURL(u *url.URL, baseURL string) (base, path string) {
	path = u.Path
	if path == "" {
		path = "/"
	}
	if u.Host == "" {
		return "", path
	}

	origin := u.Scheme + "://" + u.Host
	if baseURL != "" {
		trimmed := strings.TrimRight(baseURL, "/")
		full := origin + path
		if full == trimmed {
			return baseURL, "/"
		}
		if strings.HasPrefix(full, trimmed+"/") {
			return baseURL, strings.TrimPrefix(full, trimmed)
		}
	}
	return origin, path
}

// outgoing returns a copy of the intercepted request with a fresh body, for
// sending over the real transport.
func (r *Request) outgoing() *http.Request {
	out := r.HTTPRequest.Clone(r.HTTPRequest.Context())
	if r.Body == nil {
		out.Body = http.NoBody
		return out
	}
	out.Body = io.NopCloser(bytes.NewReader(r.Body))
	out.ContentLength = int64(len(r.Body))
	body := r.Body
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return out
}
