package adapter

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/mockadapter/internal/id"
	"github.com/getmockd/mockadapter/internal/matching"
	"github.com/getmockd/mockadapter/pkg/logging"
	"github.com/getmockd/mockadapter/pkg/requestlog"
)

// Adapter answers the requests of an *http.Client from registered handlers.
// It implements http.RoundTripper and is safe for concurrent use.
type Adapter struct {
	mu        sync.Mutex
	client    *http.Client
	original  http.RoundTripper
	handlers  *registry
	history   requestlog.Store
	log       *slog.Logger
	delay     time.Duration
	onNoMatch NoMatchFunc
	known     matching.RouteParams
	defaults  requestDefaults
}

// New creates an adapter and installs it as client's transport. The previous
// transport is kept for pass-through requests and put back by Restore. A nil
// client creates an adapter that is only used through RoundTrip or Handle.
func New(client *http.Client, opts *Options) *Adapter {
	if opts == nil {
		opts = &Options{}
	}

	a := &Adapter{
		handlers:  newRegistry(),
		history:   opts.History,
		log:       opts.Logger,
		onNoMatch: opts.OnNoMatch,
		known:     matching.ResolveRouteParams(opts.KnownRouteParams),
		defaults: requestDefaults{
			baseURL:             opts.BaseURL,
			timeout:             opts.Timeout,
			timeoutErrorMessage: opts.TimeoutErrorMessage,
			validateStatus:      opts.ValidateStatus,
		},
	}
	if opts.DelayResponse > 0 {
		a.delay = opts.DelayResponse
	}
	if a.history == nil {
		a.history = requestlog.NewMemoryStore(0)
	}
	if a.log == nil {
		a.log = logging.Nop()
	}
	a.log = logging.Component(a.log, "adapter")

	if client != nil {
		a.client = client
		a.original = client.Transport
		if a.defaults.timeout == 0 {
			a.defaults.timeout = client.Timeout
		}
		client.Transport = a
	}
	return a
}

// NewClient returns a client whose transport is a new adapter. Pass-through
// requests use http.DefaultTransport.
func NewClient(opts *Options) (*http.Client, *Adapter) {
	client := &http.Client{}
	return client, New(client, opts)
}

// Restore puts the client's original transport back. The adapter keeps
// working when called directly.
func (a *Adapter) Restore() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		a.client.Transport = a.original
		a.client = nil
	}
}

// Reset removes every handler and clears the history.
func (a *Adapter) Reset() {
	a.ResetHandlers()
	a.ResetHistory()
}

// ResetHandlers removes every handler.
func (a *Adapter) ResetHandlers() {
	a.mu.Lock()
	a.handlers.reset()
	a.mu.Unlock()
}

// ResetHistory clears the recorded requests.
func (a *Adapter) ResetHistory() {
	a.history.Clear()
}

// History returns the recorded requests for method, oldest first. An empty
// method returns every request.
func (a *Adapter) History(method string) []*requestlog.Entry {
	return a.history.List(&requestlog.Filter{Method: strings.ToLower(method)})
}

// Handlers describes the registered handlers of method in match order, or
// of every verb when method is empty.
func (a *Adapter) Handlers(method string) []HandlerInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handlers.snapshot(strings.ToLower(method))
}

// On starts a handler for verb, which is one of Verbs or "any". The optional
// expectations are the request body (query parameters for get, head, delete
// and options) followed by the request headers.
func (a *Adapter) On(verb string, pattern any, expectations ...any) *RouteBuilder {
	b := &RouteBuilder{
		adapter: a,
		verb:    strings.ToLower(verb),
		pattern: pattern,
	}
	if len(expectations) > 0 {
		b.body = expectations[0]
	}
	if len(expectations) > 1 {
		b.headers = expectations[1]
	}

	route, err := matching.CompileRoute(pattern, a.known)
	if err != nil {
		a.log.Warn("route pattern never matches", "pattern", pattern, "error", err)
		route = matching.Never(pattern)
	}
	b.route = route
	return b
}

func (a *Adapter) OnGet(pattern any, expectations ...any) *RouteBuilder {
	return a.On("get", pattern, expectations...)
}

func (a *Adapter) OnPost(pattern any, expectations ...any) *RouteBuilder {
	return a.On("post", pattern, expectations...)
}

func (a *Adapter) OnHead(pattern any, expectations ...any) *RouteBuilder {
	return a.On("head", pattern, expectations...)
}

func (a *Adapter) OnDelete(pattern any, expectations ...any) *RouteBuilder {
	return a.On("delete", pattern, expectations...)
}

func (a *Adapter) OnPatch(pattern any, expectations ...any) *RouteBuilder {
	return a.On("patch", pattern, expectations...)
}

func (a *Adapter) OnPut(pattern any, expectations ...any) *RouteBuilder {
	return a.On("put", pattern, expectations...)
}

func (a *Adapter) OnOptions(pattern any, expectations ...any) *RouteBuilder {
	return a.On("options", pattern, expectations...)
}

func (a *Adapter) OnList(pattern any, expectations ...any) *RouteBuilder {
	return a.On("list", pattern, expectations...)
}

// OnAny registers one handler under every verb.
func (a *Adapter) OnAny(pattern any, expectations ...any) *RouteBuilder {
	return a.On(verbAny, pattern, expectations...)
}

func (a *Adapter) addHandler(h *Handler) {
	h.id = id.UUID()
	a.mu.Lock()
	a.handlers.add(h)
	a.mu.Unlock()
	a.log.Debug("handler registered", "id", h.id, "method", h.verb, "route", h.route.String(), "once", h.once)
}

// passthroughTransport is the transport real requests are sent over.
func (a *Adapter) passthroughTransport() http.RoundTripper {
	if a.original != nil {
		return a.original
	}
	return http.DefaultTransport
}
