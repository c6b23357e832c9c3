package testing

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"golang.org/x/oauth2"

	"github.com/getmockd/mockadapter/pkg/adapter"
	"github.com/getmockd/mockadapter/pkg/config"
)

// Mock is an adapter bound to a test and to its own *http.Client.
type Mock struct {
	*adapter.Adapter

	t      testing.TB
	client *http.Client
}

// Option customizes the adapter created by New.
type Option func(*adapter.Options)

// WithBaseURL sets adapter.Options.BaseURL.
func WithBaseURL(baseURL string) Option {
	return func(o *adapter.Options) { o.BaseURL = baseURL }
}

// WithDelay sets adapter.Options.DelayResponse.
func WithDelay(d time.Duration) Option {
	return func(o *adapter.Options) { o.DelayResponse = d }
}

// WithKnownRouteParams sets adapter.Options.KnownRouteParams.
func WithKnownRouteParams(params map[string]string) Option {
	return func(o *adapter.Options) { o.KnownRouteParams = params }
}

// WithOnNoMatch sets adapter.Options.OnNoMatch.
func WithOnNoMatch(fn adapter.NoMatchFunc) Option {
	return func(o *adapter.Options) { o.OnNoMatch = fn }
}

// WithValidateStatus sets adapter.Options.ValidateStatus.
func WithValidateStatus(fn func(status int) bool) Option {
	return func(o *adapter.Options) { o.ValidateStatus = fn }
}

// New creates a Mock whose adapter logs to t and is restored when the test
// completes.
func New(t testing.TB, opts ...Option) *Mock {
	t.Helper()

	options := &adapter.Options{Logger: slogt.New(t)}
	for _, opt := range opts {
		opt(options)
	}
	client := &http.Client{}
	m := &Mock{
		Adapter: adapter.New(client, options),
		t:       t,
		client:  client,
	}
	t.Cleanup(m.Restore)
	return m
}

// NewFromFixture creates a Mock configured by the fixture at path (a file or
// a glob). The test fails immediately if the fixture cannot be loaded.
func NewFromFixture(t testing.TB, path string) *Mock {
	t.Helper()

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading fixture %s: %v", path, err)
	}
	client := &http.Client{}
	a, err := config.NewAdapter(client, c, slogt.New(t))
	if err != nil {
		t.Fatalf("applying fixture %s: %v", path, err)
	}
	m := &Mock{Adapter: a, t: t, client: client}
	t.Cleanup(m.Restore)
	return m
}

// Client returns the client the adapter is installed on.
func (m *Mock) Client() *http.Client {
	return m.client
}

// OAuth2Context returns ctx carrying the mock's client, so that
// golang.org/x/oauth2 token exchanges and authorized clients built from it
// go through the adapter.
func (m *Mock) OAuth2Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, m.client)
}

// Requests returns the recorded requests, oldest first.
func (m *Mock) Requests() []RequestLog {
	entries := m.History("")
	result := make([]RequestLog, len(entries))
	for i, e := range entries {
		headers := make(map[string]string, len(e.Headers))
		for k, v := range e.Headers {
			if len(v) > 0 {
				headers[k] = v[0]
			}
		}
		result[i] = RequestLog{
			Method:      strings.ToUpper(e.Method),
			Path:        e.URL,
			Headers:     headers,
			Body:        e.Body,
			QueryString: e.QueryString,
			MatchedID:   e.MatchedHandlerID,
			Status:      e.ResponseStatus,
			Error:       e.Error,
		}
	}
	return result
}

// AssertCalled asserts that an endpoint was called at least once.
func (m *Mock) AssertCalled(t testing.TB, method, path string) {
	t.Helper()

	if m.countCalls(method, path) == 0 {
		t.Errorf("expected %s %s to be called, but it was not called", method, path)
	}
}

// AssertCalledTimes asserts that an endpoint was called exactly n times.
func (m *Mock) AssertCalledTimes(t testing.TB, method, path string, times int) {
	t.Helper()

	count := m.countCalls(method, path)
	if count != times {
		t.Errorf("expected %s %s to be called %d times, but was called %d times",
			method, path, times, count)
	}
}

// AssertNotCalled asserts that an endpoint was not called.
func (m *Mock) AssertNotCalled(t testing.TB, method, path string) {
	t.Helper()

	count := m.countCalls(method, path)
	if count > 0 {
		t.Errorf("expected %s %s to not be called, but it was called %d times",
			method, path, count)
	}
}

// AssertAllConsumed asserts that no one-shot handler is still waiting for
// its request.
func (m *Mock) AssertAllConsumed(t testing.TB) {
	t.Helper()

	seen := map[string]bool{}
	for _, h := range m.Handlers("") {
		if !h.Once || seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		t.Errorf("one-shot handler %s %s was never used", strings.ToUpper(h.Method), h.Route)
	}
}

func (m *Mock) countCalls(method, path string) int {
	count := 0
	for _, e := range m.History(method) {
		if matchesPath(e.URL, path) {
			count++
		}
	}
	return count
}

// matchesPath checks if a request path matches the expected path. Segments
// written as {name} or :name match any value.
func matchesPath(actual, expected string) bool {
	actual = "/" + strings.TrimPrefix(actual, "/")
	expected = "/" + strings.TrimPrefix(expected, "/")
	if actual == expected {
		return true
	}

	actualParts := strings.Split(actual, "/")
	expectedParts := strings.Split(expected, "/")
	if len(actualParts) != len(expectedParts) {
		return false
	}

	for i, exp := range expectedParts {
		if strings.HasPrefix(exp, "{") && strings.HasSuffix(exp, "}") {
			continue
		}
		if strings.HasPrefix(exp, ":") && len(exp) > 1 {
			continue
		}
		if exp != actualParts[i] {
			return false
		}
	}
	return true
}
