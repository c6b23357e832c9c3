package adapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/getmockd/mockadapter/pkg/requestlog"
)

// NoMatchFunc decides the outcome of a request no handler matched. Returning
// a Response settles it; returning an error rejects with that error;
// returning ErrPassthrough sends the request over the real transport;
// returning (nil, nil) falls back to the default ErrNoMatch rejection.
type NoMatchFunc func(req *Request) (*Response, error)

// ErrPassthrough is returned by a NoMatchFunc to forward the request to the
// client's original transport.
var ErrPassthrough = errors.New("adapter: pass through to network")

// Options configures an Adapter. The zero value is usable.
type Options struct {
	// DelayResponse defers every mocked outcome by this duration.
	DelayResponse time.Duration

	// OnNoMatch is invoked when no handler matches a request.
	OnNoMatch NoMatchFunc

	// KnownRouteParams maps placeholder tokens (":id", "{id}") to regular
	// expression fragments. Keys in any other form are ignored.
	KnownRouteParams map[string]string

	// BaseURL is stripped from request URLs before matching. When empty, the
	// scheme and host of each request act as its base URL.
	BaseURL string

	// ValidateStatus decides which status codes resolve. When nil, 2xx
	// statuses resolve and everything else rejects.
	ValidateStatus func(status int) bool

	// Timeout is reported by Timeout handlers. Defaults to the client's
	// Timeout.
	Timeout time.Duration

	// TimeoutErrorMessage replaces the default "timeout of Nms exceeded"
	// message of Timeout handlers.
	TimeoutErrorMessage string

	// History receives an entry for every dispatched request. Defaults to a
	// bounded in-memory store.
	History requestlog.Store

	// Logger receives operational logs. Defaults to a no-op logger.
	Logger *slog.Logger
}

// RequestOptions override adapter Options for a single request.
type RequestOptions struct {
	Timeout             time.Duration
	TimeoutErrorMessage string
	ValidateStatus      func(status int) bool
}

type requestOptionsKey struct{}

// WithRequestOptions returns a context carrying per-request overrides. Attach
// it to a request with http.NewRequestWithContext.
func WithRequestOptions(ctx context.Context, opts RequestOptions) context.Context {
	return context.WithValue(ctx, requestOptionsKey{}, opts)
}

func requestOptionsFrom(ctx context.Context) (RequestOptions, bool) {
	if ctx == nil {
		return RequestOptions{}, false
	}
	opts, ok := ctx.Value(requestOptionsKey{}).(RequestOptions)
	return opts, ok
}

// DefaultValidateStatus accepts 2xx statuses.
func DefaultValidateStatus(status int) bool {
	return status >= 200 && status < 300
}

// AcceptAnyStatus accepts every status, matching net/http semantics where a
// non-2xx response is not an error.
func AcceptAnyStatus(int) bool {
	return true
}
