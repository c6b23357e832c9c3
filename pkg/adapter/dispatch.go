package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getmockd/mockadapter/internal/matching"
	"github.com/getmockd/mockadapter/pkg/logging"
)

// outcome is the settled result of a dispatched request: a mocked response,
// a real response from pass-through, or a rejection.
type outcome struct {
	req  *Request
	resp *Response
	raw  *http.Response
	err  error
}

// RoundTrip implements http.RoundTripper.
func (a *Adapter) RoundTrip(r *http.Request) (*http.Response, error) {
	out := a.dispatch(r)
	switch {
	case out.err != nil:
		return nil, out.err
	case out.raw != nil:
		return out.raw, nil
	default:
		return out.resp.httpResponse()
	}
}

// Handle dispatches r asynchronously and calls exactly one of resolve or
// reject with the outcome. Pass-through responses are read into a Response.
func (a *Adapter) Handle(r *http.Request, resolve func(*Response), reject func(error)) {
	go func() {
		out := a.dispatch(r)
		switch {
		case out.err != nil:
			reject(out.err)
		case out.raw != nil:
			resp, err := responseFromHTTP(out.raw, out.req)
			if err != nil {
				reject(err)
				return
			}
			resolve(resp)
		default:
			resolve(out.resp)
		}
	}()
}

func (a *Adapter) dispatch(r *http.Request) outcome {
	start := timeNow()

	a.mu.Lock()
	defaults := a.defaults
	a.mu.Unlock()

	req, err := newRequest(r, defaults)
	if err != nil {
		return outcome{err: err}
	}

	a.mu.Lock()
	h := a.handlers.find(req.target())
	if h != nil && h.once {
		a.handlers.remove(h)
	}
	delay, onNoMatch := a.delay, a.onNoMatch
	a.mu.Unlock()

	ctx := r.Context()
	var out outcome
	if h == nil {
		a.log.Debug("no handler matched", "method", req.Method, "url", req.FullURL(), logging.Body(req.Body))
		out = a.noMatch(ctx, req, onNoMatch, delay)
	} else {
		a.log.Debug("handler matched", "id", h.id, "method", req.Method, "url", req.FullURL())
		out = a.reply(ctx, h, req, delay)
	}
	out.req = req

	a.record(req, h, out, start)
	return out
}

func (a *Adapter) reply(ctx context.Context, h *Handler, req *Request, delay time.Duration) outcome {
	switch h.kind {
	case replyPassthrough:
		return a.passThrough(req)
	case replyStatic:
		return settle(ctx, &Response{
			Status:  h.status,
			Data:    h.data,
			Headers: h.respHeaders.Clone(),
			Request: req,
		}, delay)
	default:
		if h.route.UsesLiteral() {
			req.RouteParams = matching.ExtractRouteParams(a.known, h.pattern, req.URL, req.BaseURL)
		}
		resp, err := invoke(h.produce, req)
		if err != nil {
			var aerr *Error
			if !errors.As(err, &aerr) {
				a.log.Debug("reply function failed", "id", h.id, "error", err)
			}
			return reject(ctx, err, delay)
		}
		if resp.Request == nil {
			resp.Request = req
		}
		return settle(ctx, resp, delay)
	}
}

func (a *Adapter) noMatch(ctx context.Context, req *Request, fn NoMatchFunc, delay time.Duration) outcome {
	if fn == nil {
		return reject(ctx, noMatchError(req), delay)
	}

	resp, err := callNoMatch(fn, req)
	switch {
	case errors.Is(err, ErrPassthrough):
		return a.passThrough(req)
	case err != nil:
		return reject(ctx, err, delay)
	case resp != nil:
		if resp.Request == nil {
			resp.Request = req
		}
		return settle(ctx, resp, delay)
	default:
		return reject(ctx, noMatchError(req), delay)
	}
}

func callNoMatch(fn NoMatchFunc, req *Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("no-match handler panicked: %v", r)
		}
	}()
	return fn(req)
}

func (a *Adapter) passThrough(req *Request) outcome {
	raw, err := a.passthroughTransport().RoundTrip(req.outgoing())
	if err != nil {
		return outcome{err: err}
	}
	return outcome{raw: raw}
}
