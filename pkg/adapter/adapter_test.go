package adapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockadapter/pkg/adapter"
	"github.com/getmockd/mockadapter/pkg/match"
)

const api = "https://api.test"

func newMock(t *testing.T, opts *adapter.Options) (*http.Client, *adapter.Adapter) {
	t.Helper()
	if opts == nil {
		opts = &adapter.Options{}
	}
	if opts.Logger == nil {
		opts.Logger = slogt.New(t)
	}
	client := &http.Client{}
	mock := adapter.New(client, opts)
	t.Cleanup(mock.Restore)
	return client, mock
}

func decode(t *testing.T, resp *http.Response) any {
	t.Helper()
	defer resp.Body.Close()
	var v any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func get(client *http.Client, path string) (*http.Response, error) {
	return client.Get(api + path)
}

func post(client *http.Client, path, payload string) (*http.Response, error) {
	return client.Post(api+path, "application/json", strings.NewReader(payload))
}

func TestReplyStatic(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/foo").Reply(200, map[string]any{"id": 1}, adapter.Headers{"X-Trace": "abc"})

	resp, err := get(client, "/foo")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "abc", resp.Header.Get("X-Trace"))
	assert.Equal(t, map[string]any{"id": float64(1)}, decode(t, resp))
}

func TestReplyRawData(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/text").Reply(200, "hello", adapter.Headers{"Content-Type": "text/plain"}).
		OnGet("/bytes").Reply(200, []byte("raw"), nil).
		OnGet("/empty").Reply(204, nil, nil)

	resp, err := get(client, "/text")
	require.NoError(t, err)
	assert.Equal(t, "hello", body(t, resp))
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))

	resp, err = get(client, "/bytes")
	require.NoError(t, err)
	assert.Equal(t, "raw", body(t, resp))

	resp, err = get(client, "/empty")
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Empty(t, body(t, resp))
}

func TestNetworkErrorOnceThenReply(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/foo").NetworkErrorOnce().
		OnGet("/foo").Reply(200, nil, nil)

	_, err := get(client, "/foo")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrNetwork)

	var aerr *adapter.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "Network Error", aerr.Message)
	assert.True(t, aerr.IsAdapterError)
	assert.Nil(t, aerr.Response)
	require.NotNil(t, aerr.Request)
	assert.Equal(t, "/foo", aerr.Request.URL)

	resp, err := get(client, "/foo")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestBodyExpectation(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnPost("/users", map[string]any{"name": "a"}).Reply(201, nil, nil)

	resp, err := post(client, "/users", `{"name":"a"}`)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	_, err = post(client, "/users", `{"name":"b"}`)
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
}

func TestBodyExpectationMatcher(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnPost("/users").WithBody(match.ObjectContaining(map[string]any{
		"name": match.Regexp(`^a`),
	})).Reply(201, nil, nil)

	resp, err := post(client, "/users", `{"name":"alice","age":3}`)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	_, err = post(client, "/users", `{"name":"bob"}`)
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
}

func TestRawBodyExpectation(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnPut("/note", "plain text").Reply(200, nil, nil)

	req, err := http.NewRequest(http.MethodPut, api+"/note", strings.NewReader("plain text"))
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestQueryParamsExpectation(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/search", adapter.Params{"q": "go"}).Reply(200, "found", nil).
		OnGet("/legacy", map[string]any{"params": map[string]any{"page": "2"}}).Reply(200, "page", nil)

	resp, err := get(client, "/search?q=go")
	require.NoError(t, err)
	assert.Equal(t, "found", body(t, resp))

	_, err = get(client, "/search?q=rust")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)

	resp, err = get(client, "/legacy?page=2")
	require.NoError(t, err)
	assert.Equal(t, "page", body(t, resp))
}

func TestHeadersExpectation(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/me", nil, map[string]any{"authorization": "Bearer t1"}).Reply(200, "me", nil)

	req, err := http.NewRequest(http.MethodGet, api+"/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer t1")
	resp, err := client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "me", body(t, resp))

	req.Header.Set("Authorization", "Bearer t2")
	_, err = client.Do(req)
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
}

func TestKnownRouteParams(t *testing.T) {
	client, mock := newMock(t, &adapter.Options{
		KnownRouteParams: map[string]string{":id": `\d+`, "bogus": "x"},
	})
	mock.OnGet("/users/:id").Reply(200, nil, nil)

	resp, err := get(client, "/users/42")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, err = get(client, "/users/abc")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
}

func TestReplyFuncReceivesRouteParams(t *testing.T) {
	client, mock := newMock(t, &adapter.Options{
		KnownRouteParams: map[string]string{"{org}": `[a-z]+`, ":id": `\d+`},
	})
	mock.OnGet("/orgs/{org}/users/:id").ReplyFunc(func(req *adapter.Request) (*adapter.Response, error) {
		return adapter.NewResponse(200, req.RouteParams, nil), nil
	})

	resp, err := get(client, "/orgs/acme/users/7")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"org": "acme", "id": "7"}, decode(t, resp))
}

func TestNoMatchDefaultError(t *testing.T) {
	client, _ := newMock(t, nil)

	_, err := get(client, "/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
	assert.Contains(t, err.Error(), "GET")
	assert.Contains(t, err.Error(), "/missing")
}

func TestFirstMatchWins(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet(regexp.MustCompile(`^/items`)).Reply(200, "first", nil).
		OnGet("/items/1").Reply(200, "second", nil)

	resp, err := get(client, "/items/1")
	require.NoError(t, err)
	assert.Equal(t, "first", body(t, resp))
}

func TestReRegistrationReplacesInPlace(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/a").Reply(200, "old", nil).
		OnGet(nil).Reply(200, "catch-all", nil).
		OnGet("/a").Reply(200, "new", nil)

	handlers := mock.Handlers("get")
	require.Len(t, handlers, 2)
	assert.Equal(t, "/a", handlers[0].Route)

	resp, err := get(client, "/a")
	require.NoError(t, err)
	assert.Equal(t, "new", body(t, resp))
}

func TestEquivalentMatcherReRegistrationReplaces(t *testing.T) {
	client, mock := newMock(t, &adapter.Options{ValidateStatus: adapter.AcceptAnyStatus})
	mock.OnPost("/users", match.ObjectContaining(map[string]any{"name": "a"})).Reply(201, nil, nil).
		OnPost("/users", match.ObjectContaining(map[string]any{"name": "a"})).Reply(409, nil, nil)

	require.Len(t, mock.Handlers("post"), 1)

	resp, err := post(client, "/users", `{"name":"a","age":3}`)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 409, resp.StatusCode)

	mock.OnPost("/users", match.ObjectContaining(map[string]any{"name": "b"})).Reply(201, nil, nil)
	assert.Len(t, mock.Handlers("post"), 2)
}

func TestRegexpReRegistrationComparesSource(t *testing.T) {
	_, mock := newMock(t, nil)
	mock.OnGet(regexp.MustCompile(`^/a/\d+$`)).Reply(200, nil, nil).
		OnGet(regexp.MustCompile(`^/a/\d+$`)).Reply(404, nil, nil)

	assert.Len(t, mock.Handlers("get"), 1)
}

func TestDifferentExpectationsAppend(t *testing.T) {
	_, mock := newMock(t, nil)
	mock.OnPost("/a", map[string]any{"x": 1}).Reply(200, nil, nil).
		OnPost("/a", map[string]any{"x": 2}).Reply(200, nil, nil).
		OnPost("/a", map[string]any{"x": 1}, map[string]any{"X-Key": "k"}).Reply(200, nil, nil)

	assert.Len(t, mock.Handlers("post"), 3)
}

func TestOnceHandlersNeverReplaceOrAreReplaced(t *testing.T) {
	_, mock := newMock(t, nil)
	mock.OnGet("/a").Reply(200, nil, nil).
		OnGet("/a").ReplyOnce(201, nil, nil).
		OnGet("/a").ReplyOnce(202, nil, nil)

	handlers := mock.Handlers("get")
	require.Len(t, handlers, 3)
	assert.False(t, handlers[0].Once)
	assert.True(t, handlers[1].Once)
	assert.True(t, handlers[2].Once)
}

// A persistent registration skips pending one-shot handlers with the same
// expectations: the one-shot handler stays in place and still fires first.
func TestPersistentRegistrationLeavesPendingOnceHandler(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/a").ReplyOnce(201, "once", nil).
		OnGet("/a").Reply(200, "always", nil)

	require.Len(t, mock.Handlers("get"), 2)

	resp, err := get(client, "/a")
	require.NoError(t, err)
	assert.Equal(t, "once", body(t, resp))

	resp, err = get(client, "/a")
	require.NoError(t, err)
	assert.Equal(t, "always", body(t, resp))
}

func TestReplyOnceConsumed(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/a").ReplyOnce(200, nil, nil)

	_, err := get(client, "/a")
	require.NoError(t, err)

	_, err = get(client, "/a")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
	assert.Empty(t, mock.Handlers("get"))
}

func TestOnAnyOnceConsumedEverywhere(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnAny("/a").ReplyOnce(200, nil, nil)
	for _, verb := range adapter.Verbs {
		assert.Len(t, mock.Handlers(verb), 1, verb)
	}

	resp, err := post(client, "/a", "")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Empty(t, mock.Handlers(""))
	_, err = get(client, "/a")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
}

func TestOnAnyAlwaysAppends(t *testing.T) {
	_, mock := newMock(t, nil)
	mock.OnAny("/a").Reply(200, nil, nil).
		OnAny("/a").Reply(200, nil, nil)

	assert.Len(t, mock.Handlers("get"), 2)
}

func TestLeadingSlashInsensitive(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("foo").Reply(200, nil, nil)

	resp, err := get(client, "/foo")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestFullURLPattern(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet(api + "/foo").Reply(200, nil, nil)

	resp, err := get(client, "/foo")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, err = client.Get("https://other.test/foo")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
}

func TestBaseURLOption(t *testing.T) {
	client, mock := newMock(t, &adapter.Options{BaseURL: api + "/v1"})
	mock.OnGet("/users").Reply(200, nil, nil)

	resp, err := get(client, "/v1/users")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	history := mock.History("get")
	require.Len(t, history, 1)
	assert.Equal(t, "/users", history[0].URL)
	assert.Equal(t, api+"/v1", history[0].BaseURL)
}

func TestDelayResponse(t *testing.T) {
	const delay = 50 * time.Millisecond
	client, mock := newMock(t, &adapter.Options{DelayResponse: delay})
	mock.OnGet("/slow").Reply(200, "ok", nil)

	start := time.Now()
	resp, err := get(client, "/slow")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), delay)
	assert.Equal(t, "ok", body(t, resp))
}

func TestDelayAppliesToRejections(t *testing.T) {
	const delay = 50 * time.Millisecond

	t.Run("no match", func(t *testing.T) {
		client, _ := newMock(t, &adapter.Options{DelayResponse: delay})

		start := time.Now()
		_, err := get(client, "/missing")
		assert.ErrorIs(t, err, adapter.ErrNoMatch)
		assert.GreaterOrEqual(t, time.Since(start), delay)
	})

	t.Run("no match callback without outcome", func(t *testing.T) {
		client, _ := newMock(t, &adapter.Options{
			DelayResponse: delay,
			OnNoMatch:     func(*adapter.Request) (*adapter.Response, error) { return nil, nil },
		})

		start := time.Now()
		_, err := get(client, "/missing")
		assert.ErrorIs(t, err, adapter.ErrNoMatch)
		assert.GreaterOrEqual(t, time.Since(start), delay)
	})

	t.Run("network error", func(t *testing.T) {
		client, mock := newMock(t, &adapter.Options{DelayResponse: delay})
		mock.OnGet("/down").NetworkError()

		start := time.Now()
		_, err := get(client, "/down")
		assert.ErrorIs(t, err, adapter.ErrNetwork)
		assert.GreaterOrEqual(t, time.Since(start), delay)
	})
}

func TestDelayHonoursContext(t *testing.T) {
	client, mock := newMock(t, &adapter.Options{DelayResponse: time.Minute})
	mock.OnGet("/slow").Reply(200, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api+"/slow", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStatusValidation(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/gone").Reply(404, map[string]any{"error": "gone"}, nil)

	_, err := get(client, "/gone")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrStatus)

	var aerr *adapter.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "Request failed with status code 404", aerr.Message)
	require.NotNil(t, aerr.Response)
	assert.Equal(t, 404, aerr.Response.Status)

	var payload map[string]string
	require.NoError(t, aerr.Response.JSON(&payload))
	assert.Equal(t, "gone", payload["error"])
}

func TestValidateStatusOverrides(t *testing.T) {
	client, mock := newMock(t, &adapter.Options{ValidateStatus: adapter.AcceptAnyStatus})
	mock.OnGet("/gone").Reply(404, nil, nil)

	resp, err := get(client, "/gone")
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	ctx := adapter.WithRequestOptions(context.Background(), adapter.RequestOptions{
		ValidateStatus: func(status int) bool { return status < 300 },
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api+"/gone", nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	assert.ErrorIs(t, err, adapter.ErrStatus)
}

func TestTimeoutMessages(t *testing.T) {
	client := &http.Client{Timeout: 1500 * time.Millisecond}
	mock := adapter.New(client, &adapter.Options{Logger: slogt.New(t)})
	t.Cleanup(mock.Restore)
	mock.OnGet("/t").Timeout()

	_, err := get(client, "/t")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrTimeout)

	var aerr *adapter.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "timeout of 1500ms exceeded", aerr.Message)
	assert.Equal(t, adapter.CodeConnAborted, aerr.Code)
	assert.True(t, aerr.Timeout())

	ctx := adapter.WithRequestOptions(context.Background(), adapter.RequestOptions{
		TimeoutErrorMessage: "custom timeout",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api+"/t", nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "custom timeout", aerr.Message)
}

func TestTimeoutOnceAndAbort(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/t").TimeoutOnce().
		OnGet("/abort").AbortRequestOnce().
		OnGet("/abort-always").AbortRequest().
		OnGet("/net").NetworkError()

	_, err := get(client, "/t")
	assert.ErrorIs(t, err, adapter.ErrTimeout)
	_, err = get(client, "/t")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)

	_, err = get(client, "/abort")
	var aerr *adapter.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "Request aborted", aerr.Message)
	assert.Equal(t, adapter.CodeConnAborted, aerr.Code)
	_, err = get(client, "/abort")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)

	for range 2 {
		_, err = get(client, "/abort-always")
		assert.ErrorIs(t, err, adapter.ErrAborted)
		_, err = get(client, "/net")
		assert.ErrorIs(t, err, adapter.ErrNetwork)
	}
}

func TestReplyFuncErrorsAndPanics(t *testing.T) {
	boom := errors.New("boom")
	client, mock := newMock(t, nil)
	mock.OnGet("/err").ReplyFunc(func(*adapter.Request) (*adapter.Response, error) {
		return nil, boom
	}).OnGet("/panic").ReplyFunc(func(*adapter.Request) (*adapter.Response, error) {
		panic("kaput")
	}).OnGet("/nil").ReplyFunc(func(*adapter.Request) (*adapter.Response, error) {
		return nil, nil
	})

	_, err := get(client, "/err")
	assert.ErrorIs(t, err, boom)

	_, err = get(client, "/panic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaput")

	_, err = get(client, "/nil")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned no response")
}

func TestReplyFuncOnceConsumedEvenWhenFailing(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/a").ReplyFuncOnce(func(*adapter.Request) (*adapter.Response, error) {
		return nil, errors.New("fail")
	})

	_, err := get(client, "/a")
	require.Error(t, err)
	assert.Empty(t, mock.Handlers("get"))
}

func TestReplyFuncSeesRequest(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnPost("/echo").ReplyFunc(func(req *adapter.Request) (*adapter.Response, error) {
		return adapter.NewResponse(200, map[string]any{
			"method": req.Method,
			"url":    req.URL,
			"base":   req.BaseURL,
			"body":   string(req.Body),
			"q":      req.Params.Get("q"),
		}, nil), nil
	})

	resp, err := post(client, "/echo?q=1", `hi`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"method": "post",
		"url":    "/echo",
		"base":   api,
		"body":   "hi",
		"q":      "1",
	}, decode(t, resp))
}

func TestPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Real", "yes")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write(append([]byte("real:"), b...))
	}))
	defer srv.Close()

	client := srv.Client()
	mock := adapter.New(client, &adapter.Options{Logger: slogt.New(t)})
	t.Cleanup(mock.Restore)
	mock.OnPost("/real").PassThrough().
		OnPost("/fake").Reply(200, "fake", nil)

	resp, err := client.Post(srv.URL+"/real", "text/plain", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "yes", resp.Header.Get("X-Real"))
	assert.Equal(t, "real:payload", body(t, resp))

	resp, err = client.Post(srv.URL+"/fake", "text/plain", nil)
	require.NoError(t, err)
	assert.Equal(t, "fake", body(t, resp))
}

func TestOnNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "network")
	}))
	defer srv.Close()

	custom := errors.New("custom")
	client := srv.Client()
	mock := adapter.New(client, &adapter.Options{
		Logger: slogt.New(t),
		OnNoMatch: func(req *adapter.Request) (*adapter.Response, error) {
			switch req.URL {
			case "/respond":
				return adapter.NewResponse(200, "from callback", nil), nil
			case "/reject":
				return nil, custom
			case "/passthrough":
				return nil, adapter.ErrPassthrough
			case "/notfound":
				return adapter.NewResponse(404, nil, nil), nil
			default:
				return nil, nil
			}
		},
	})
	t.Cleanup(mock.Restore)

	resp, err := client.Get(srv.URL + "/respond")
	require.NoError(t, err)
	assert.Equal(t, "from callback", body(t, resp))

	_, err = client.Get(srv.URL + "/reject")
	assert.ErrorIs(t, err, custom)

	resp, err = client.Get(srv.URL + "/passthrough")
	require.NoError(t, err)
	assert.Equal(t, "network", body(t, resp))

	_, err = client.Get(srv.URL + "/notfound")
	assert.ErrorIs(t, err, adapter.ErrStatus)

	_, err = client.Get(srv.URL + "/other")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
}

func TestHandleCallbackForm(t *testing.T) {
	mock := adapter.New(nil, &adapter.Options{Logger: slogt.New(t)})
	mock.OnGet("/ok").Reply(200, "ok", nil).
		OnGet("/bad").Reply(500, nil, nil)

	dispatch := func(path string) (*adapter.Response, error) {
		req, err := http.NewRequest(http.MethodGet, api+path, nil)
		require.NoError(t, err)

		var (
			wg   sync.WaitGroup
			resp *adapter.Response
			rerr error
		)
		wg.Add(1)
		mock.Handle(req,
			func(r *adapter.Response) { resp = r; wg.Done() },
			func(err error) { rerr = err; wg.Done() },
		)
		wg.Wait()
		return resp, rerr
	}

	resp, err := dispatch("/ok")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "ok", resp.Data)

	_, err = dispatch("/bad")
	assert.ErrorIs(t, err, adapter.ErrStatus)
}

func TestRoundTripWithoutClient(t *testing.T) {
	mock := adapter.New(nil, nil)
	mock.OnGet("/a").Reply(200, "direct", nil)

	client := &http.Client{Transport: mock}
	resp, err := get(client, "/a")
	require.NoError(t, err)
	assert.Equal(t, "direct", body(t, resp))
}

func TestRestore(t *testing.T) {
	original := &countingTransport{}
	client := &http.Client{Transport: original}
	mock := adapter.New(client, nil)
	assert.Same(t, mock, client.Transport)

	mock.Restore()
	assert.Same(t, original, client.Transport)

	_, _ = get(client, "/a")
	assert.Equal(t, 1, original.calls)

	mock.Restore()
	assert.Same(t, original, client.Transport)
}

type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls++
	return nil, errors.New("offline")
}

func TestResets(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/a").Reply(200, nil, nil)
	_, err := get(client, "/a")
	require.NoError(t, err)

	mock.ResetHistory()
	assert.Empty(t, mock.History(""))
	assert.Len(t, mock.Handlers(""), 1)

	_, err = get(client, "/a")
	require.NoError(t, err)
	mock.ResetHandlers()
	assert.Empty(t, mock.Handlers(""))
	assert.Len(t, mock.History(""), 1)

	mock.OnGet("/a").Reply(200, nil, nil)
	mock.Reset()
	assert.Empty(t, mock.Handlers(""))
	assert.Empty(t, mock.History(""))
}

func TestHistory(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnPost("/users").Reply(201, nil, nil).
		OnGet("/gone").Reply(410, nil, nil)

	_, err := post(client, "/users?x=1", `{"name":"a"}`)
	require.NoError(t, err)
	_, err = get(client, "/gone")
	require.Error(t, err)
	_, err = get(client, "/missing")
	require.Error(t, err)

	all := mock.History("")
	require.Len(t, all, 3)

	posts := mock.History("POST")
	require.Len(t, posts, 1)
	assert.Equal(t, "/users", posts[0].URL)
	assert.Equal(t, "x=1", posts[0].QueryString)
	assert.Equal(t, `{"name":"a"}`, posts[0].Body)
	assert.Equal(t, 201, posts[0].ResponseStatus)
	assert.NotEmpty(t, posts[0].MatchedHandlerID)

	gets := mock.History("get")
	require.Len(t, gets, 2)
	assert.Equal(t, 410, gets[0].ResponseStatus)
	assert.NotEmpty(t, gets[0].Error)
	assert.Empty(t, gets[1].MatchedHandlerID)
	assert.Contains(t, gets[1].Error, "/missing")
}

func TestConcurrentOnceConsumedExactlyOnce(t *testing.T) {
	client, mock := newMock(t, nil)
	mock.OnGet("/a").ReplyOnce(200, nil, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := get(client, "/a")
			if err == nil {
				resp.Body.Close()
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
}

func TestInvalidRoutePatternNeverMatches(t *testing.T) {
	client, mock := newMock(t, &adapter.Options{
		KnownRouteParams: map[string]string{":id": `(`},
	})
	mock.OnGet("/users/:id").Reply(200, nil, nil).
		OnGet(42).Reply(200, nil, nil)

	assert.Len(t, mock.Handlers("get"), 2)
	_, err := get(client, "/users/1")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
}
