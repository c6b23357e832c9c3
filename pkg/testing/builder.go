package testing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/getmockd/mockadapter/internal/matching"
	"github.com/getmockd/mockadapter/pkg/adapter"
	"github.com/getmockd/mockadapter/pkg/match"
)

// MockBuilder collects an expectation until Reply registers it.
type MockBuilder struct {
	mock   *Mock
	method string
	path   string

	status  int
	body    any
	headers adapter.Headers

	params       adapter.Params
	reqHeaders   map[string]any
	bodyMatchers []match.Matcher
	times        int
	err          error
}

// Expect starts an expectation for method and path. The path takes the same
// forms as Adapter.On: a literal, a route with known params, or a full URL.
func (m *Mock) Expect(method, path string) *MockBuilder {
	return &MockBuilder{
		mock:    m,
		method:  method,
		path:    path,
		status:  http.StatusOK,
		headers: adapter.Headers{},
	}
}

// setError records the first error encountered during building.
func (b *MockBuilder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns the first error encountered while building, if any.
func (b *MockBuilder) Err() error {
	return b.err
}

// WithStatus sets the response status code.
func (b *MockBuilder) WithStatus(status int) *MockBuilder {
	b.status = status
	return b
}

// WithBody sets the response body. Strings and byte slices are sent as-is;
// anything else is encoded as JSON.
func (b *MockBuilder) WithBody(body any) *MockBuilder {
	b.body = body
	return b
}

// WithJSON sets the response body to body encoded as JSON, with a JSON
// Content-Type.
func (b *MockBuilder) WithJSON(body any) *MockBuilder {
	data, err := json.Marshal(body)
	if err != nil {
		b.setError(fmt.Errorf("WithJSON: %w", err))
		return b
	}
	b.body = json.RawMessage(data)
	b.headers["Content-Type"] = "application/json"
	return b
}

// WithHeader adds a response header.
func (b *MockBuilder) WithHeader(key, value string) *MockBuilder {
	b.headers[key] = value
	return b
}

// WithHeaders adds multiple response headers.
func (b *MockBuilder) WithHeaders(headers map[string]string) *MockBuilder {
	for k, v := range headers {
		b.headers[k] = v
	}
	return b
}

// WithBodyContains requires the request body to contain substr.
func (b *MockBuilder) WithBodyContains(substr string) *MockBuilder {
	b.bodyMatchers = append(b.bodyMatchers, match.Contains(substr))
	return b
}

// WithBodyEquals requires the request body to equal body. JSON bodies are
// compared structurally.
func (b *MockBuilder) WithBodyEquals(body string) *MockBuilder {
	b.bodyMatchers = append(b.bodyMatchers, match.EqualTo(matching.ParseBody([]byte(body))))
	return b
}

// WithBodyPattern requires the request body to match a regular expression.
func (b *MockBuilder) WithBodyPattern(pattern string) *MockBuilder {
	b.bodyMatchers = append(b.bodyMatchers, match.Regexp(pattern))
	return b
}

// WithJSONPath requires the JSON request body to satisfy path conditions.
func (b *MockBuilder) WithJSONPath(conditions map[string]any) *MockBuilder {
	b.bodyMatchers = append(b.bodyMatchers, match.JSONPath(conditions))
	return b
}

// WithQueryParam adds an expected query parameter. The request's query must
// consist of exactly the expected parameters.
func (b *MockBuilder) WithQueryParam(key, value string) *MockBuilder {
	if b.params == nil {
		b.params = adapter.Params{}
	}
	b.params[key] = value
	return b
}

// WithQueryParams adds multiple expected query parameters.
func (b *MockBuilder) WithQueryParams(params map[string]string) *MockBuilder {
	for k, v := range params {
		b.WithQueryParam(k, v)
	}
	return b
}

// WithRequestHeader requires a request header value. Other headers are
// ignored.
func (b *MockBuilder) WithRequestHeader(key, value string) *MockBuilder {
	if b.reqHeaders == nil {
		b.reqHeaders = map[string]any{}
	}
	b.reqHeaders[http.CanonicalHeaderKey(key)] = value
	return b
}

// WithRequestHeaders requires multiple request header values.
func (b *MockBuilder) WithRequestHeaders(headers map[string]string) *MockBuilder {
	for k, v := range headers {
		b.WithRequestHeader(k, v)
	}
	return b
}

// Times limits the expectation to n requests.
func (b *MockBuilder) Times(n int) *MockBuilder {
	if n < 1 {
		b.setError(fmt.Errorf("Times: n must be positive, got %d", n))
		return b
	}
	b.times = n
	return b
}

// Once is shorthand for Times(1).
func (b *MockBuilder) Once() *MockBuilder {
	return b.Times(1)
}

// Twice is shorthand for Times(2).
func (b *MockBuilder) Twice() *MockBuilder {
	return b.Times(2)
}

// Reply registers the expectation. A building error fails the test.
func (b *MockBuilder) Reply() {
	b.mock.t.Helper()

	if err := b.register(); err != nil {
		b.mock.t.Errorf("mock %s %s: %v", b.method, b.path, err)
	}
}

func (b *MockBuilder) register() error {
	body := b.bodyExpectation()
	if b.err != nil {
		return b.err
	}
	rb := b.mock.On(b.method, b.path)
	if body != nil {
		rb.WithBody(body)
	}
	if b.reqHeaders != nil {
		rb.WithHeaders(match.ObjectContaining(b.reqHeaders))
	}
	if b.times == 0 {
		rb.Reply(b.status, b.body, b.headers.Clone())
		return nil
	}
	for range b.times {
		rb.ReplyOnce(b.status, b.body, b.headers.Clone())
	}
	return nil
}

func (b *MockBuilder) bodyExpectation() any {
	if matching.UsesParams(b.method) {
		if len(b.bodyMatchers) > 0 {
			b.setError(errors.New("body matchers are not supported for " + b.method))
		}
		if b.params == nil {
			return nil
		}
		return b.params
	}
	if len(b.bodyMatchers) == 0 {
		return nil
	}
	return match.All(b.bodyMatchers...)
}

// RespondWith sets status and body.
func (b *MockBuilder) RespondWith(status int, body any) *MockBuilder {
	return b.WithStatus(status).WithBody(body)
}

// RespondJSON responds 200 with body encoded as JSON.
func (b *MockBuilder) RespondJSON(body any) *MockBuilder {
	return b.WithStatus(http.StatusOK).WithJSON(body)
}

// RespondNotFound responds 404 with a JSON error.
func (b *MockBuilder) RespondNotFound() *MockBuilder {
	return b.WithStatus(http.StatusNotFound).WithJSON(map[string]string{"error": "not found"})
}

// RespondBadRequest responds 400 with a JSON error.
func (b *MockBuilder) RespondBadRequest(message string) *MockBuilder {
	return b.WithStatus(http.StatusBadRequest).WithJSON(map[string]string{"error": message})
}

// RespondServerError responds 500 with a JSON error.
func (b *MockBuilder) RespondServerError(message string) *MockBuilder {
	return b.WithStatus(http.StatusInternalServerError).WithJSON(map[string]string{"error": message})
}

// RespondUnauthorized responds 401.
func (b *MockBuilder) RespondUnauthorized() *MockBuilder {
	return b.WithStatus(http.StatusUnauthorized).WithJSON(map[string]string{"error": "unauthorized"})
}

// RespondForbidden responds 403.
func (b *MockBuilder) RespondForbidden() *MockBuilder {
	return b.WithStatus(http.StatusForbidden).WithJSON(map[string]string{"error": "forbidden"})
}

// RespondCreated responds 201 with body encoded as JSON.
func (b *MockBuilder) RespondCreated(body any) *MockBuilder {
	return b.WithStatus(http.StatusCreated).WithJSON(body)
}

// RespondNoContent responds 204 with no body.
func (b *MockBuilder) RespondNoContent() *MockBuilder {
	b.body = nil
	return b.WithStatus(http.StatusNoContent)
}
