package testing

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/mockadapter/pkg/match"
)

// RequestLog is a recorded request in a form convenient for assertions.
type RequestLog struct {
	// Method is the upper-case HTTP method.
	Method string
	// Path is the request URL relative to the adapter's base URL.
	Path string
	// Headers holds the first value of each request header.
	Headers map[string]string
	Body    string
	// QueryString is the encoded query string.
	QueryString string
	// MatchedID is the ID of the handler that answered, if any.
	MatchedID string
	// Status is the mocked response status, zero when the request was
	// rejected.
	Status int
	Error  string
}

// AssertJSONBody asserts that the request body matches the expected JSON.
// expected may be a JSON string, a []byte, or any value that encodes to JSON;
// matchers inside it are honored.
func (r *RequestLog) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	switch v := expected.(type) {
	case string:
		expected = json.RawMessage(v)
	case []byte:
		expected = json.RawMessage(v)
	}
	if raw, ok := expected.(json.RawMessage); ok {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
		expected = parsed
	}

	var actual any
	if err := json.Unmarshal([]byte(r.Body), &actual); err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, r.Body)
		return
	}

	if !match.Equal(actual, expected) {
		expectedBytes, _ := json.MarshalIndent(expected, "", "  ")
		actualBytes, _ := json.MarshalIndent(actual, "", "  ")
		t.Errorf("request body does not match expected JSON\nexpected:\n%s\nactual:\n%s",
			string(expectedBytes), string(actualBytes))
	}
}

// AssertBody asserts that the request body exactly matches the expected string.
func (r *RequestLog) AssertBody(t testing.TB, expected string) {
	t.Helper()

	if r.Body != expected {
		t.Errorf("request body does not match\nexpected: %q\nactual: %q", expected, r.Body)
	}
}

// AssertBodyContains asserts that the request body contains substr.
func (r *RequestLog) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()

	if !strings.Contains(r.Body, substr) {
		t.Errorf("request body does not contain %q\nbody: %s", substr, r.Body)
	}
}

// AssertHeader asserts that the request had the header with the expected
// value. Header names are case-insensitive.
func (r *RequestLog) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()

	actual, ok := r.header(key)
	if !ok {
		t.Errorf("request does not have header %q", key)
		return
	}
	if actual != expected {
		t.Errorf("header %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// AssertHeaderExists asserts that the request had the header.
func (r *RequestLog) AssertHeaderExists(t testing.TB, key string) {
	t.Helper()

	if _, ok := r.header(key); !ok {
		t.Errorf("request does not have header %q", key)
	}
}

// AssertHeaderContains asserts that the header value contains substr.
func (r *RequestLog) AssertHeaderContains(t testing.TB, key, substr string) {
	t.Helper()

	actual, ok := r.header(key)
	if !ok {
		t.Errorf("request does not have header %q", key)
		return
	}
	if !strings.Contains(actual, substr) {
		t.Errorf("header %q value does not contain %q\nvalue: %q", key, substr, actual)
	}
}

func (r *RequestLog) header(key string) (string, bool) {
	if v, ok := r.Headers[key]; ok {
		return v, true
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// AssertQueryParam asserts that the request had the query parameter with the
// expected value.
func (r *RequestLog) AssertQueryParam(t testing.TB, key, expected string) {
	t.Helper()

	params, _ := url.ParseQuery(r.QueryString)
	if !params.Has(key) {
		t.Errorf("request does not have query parameter %q", key)
		return
	}
	if actual := params.Get(key); actual != expected {
		t.Errorf("query parameter %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// AssertQueryParamExists asserts that the request had the query parameter.
func (r *RequestLog) AssertQueryParamExists(t testing.TB, key string) {
	t.Helper()

	params, _ := url.ParseQuery(r.QueryString)
	if !params.Has(key) {
		t.Errorf("request does not have query parameter %q", key)
	}
}

// AssertMethod asserts that the request used the expected HTTP method.
func (r *RequestLog) AssertMethod(t testing.TB, expected string) {
	t.Helper()

	if !strings.EqualFold(r.Method, expected) {
		t.Errorf("request method mismatch\nexpected: %q\nactual: %q", expected, r.Method)
	}
}

// AssertPath asserts that the request path matches.
func (r *RequestLog) AssertPath(t testing.TB, expected string) {
	t.Helper()

	if r.Path != expected {
		t.Errorf("request path mismatch\nexpected: %q\nactual: %q", expected, r.Path)
	}
}

// JSONField extracts a field from the request body JSON. field is a dotted
// path ("user.name") or a JSONPath expression ("$.items[0].id"). It returns
// nil if the body is not JSON or nothing is selected.
func (r *RequestLog) JSONField(field string) any {
	var data any
	if err := json.Unmarshal([]byte(r.Body), &data); err != nil {
		return nil
	}
	if !strings.HasPrefix(field, "$") {
		field = "$." + field
	}
	expr, err := jp.ParseString(field)
	if err != nil {
		return nil
	}
	results := expr.Get(data)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// AssertJSONField asserts that a JSON field in the request body has the
// expected value. Numbers compare by value regardless of Go type.
func (r *RequestLog) AssertJSONField(t testing.TB, field string, expected any) {
	t.Helper()

	actual := r.JSONField(field)
	if actual == nil {
		t.Errorf("JSON field %q not found in request body: %s", field, r.Body)
		return
	}
	if !match.Equal(actual, expected) {
		t.Errorf("JSON field %q mismatch\nexpected: %v (%T)\nactual: %v (%T)",
			field, expected, expected, actual, actual)
	}
}
