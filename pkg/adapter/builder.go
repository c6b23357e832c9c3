package adapter

import "github.com/getmockd/mockadapter/internal/matching"

// RouteBuilder collects the expectations of a handler until one of its reply
// methods registers it.
type RouteBuilder struct {
	adapter *Adapter
	verb    string
	pattern any
	route   *matching.Route
	body    any
	headers any
}

// WithBody sets the expected request body.
func (b *RouteBuilder) WithBody(body any) *RouteBuilder {
	b.body = body
	return b
}

// WithParams sets the expected query parameters.
func (b *RouteBuilder) WithParams(params Params) *RouteBuilder {
	b.body = params
	return b
}

// WithHeaders sets the expected request headers. Pass a map[string]any (or
// map[string]string) keyed by header name, or a match.Matcher.
func (b *RouteBuilder) WithHeaders(headers any) *RouteBuilder {
	b.headers = headers
	return b
}

// Reply answers matching requests with a static response.
func (b *RouteBuilder) Reply(status int, data any, headers Headers) *Adapter {
	return b.register(&Handler{kind: replyStatic, status: status, data: data, respHeaders: headers})
}

// ReplyOnce answers the next matching request with a static response.
func (b *RouteBuilder) ReplyOnce(status int, data any, headers Headers) *Adapter {
	return b.register(&Handler{kind: replyStatic, status: status, data: data, respHeaders: headers, once: true})
}

// ReplyFunc answers matching requests with the outcome of fn.
func (b *RouteBuilder) ReplyFunc(fn ReplyFunc) *Adapter {
	return b.register(&Handler{kind: replyProducer, produce: fn})
}

// ReplyFuncOnce answers the next matching request with the outcome of fn.
func (b *RouteBuilder) ReplyFuncOnce(fn ReplyFunc) *Adapter {
	return b.register(&Handler{kind: replyProducer, produce: fn, once: true})
}

// PassThrough sends matching requests over the client's original transport.
func (b *RouteBuilder) PassThrough() *Adapter {
	b.headers = nil
	return b.register(&Handler{kind: replyPassthrough})
}

// NetworkError rejects matching requests with a network error.
func (b *RouteBuilder) NetworkError() *Adapter {
	return b.ReplyFunc(networkError)
}

// NetworkErrorOnce rejects the next matching request with a network error.
func (b *RouteBuilder) NetworkErrorOnce() *Adapter {
	return b.ReplyFuncOnce(networkError)
}

// Timeout rejects matching requests with a timeout error.
func (b *RouteBuilder) Timeout() *Adapter {
	return b.ReplyFunc(timeoutError)
}

// TimeoutOnce rejects the next matching request with a timeout error.
func (b *RouteBuilder) TimeoutOnce() *Adapter {
	return b.ReplyFuncOnce(timeoutError)
}

// AbortRequest rejects matching requests as aborted.
func (b *RouteBuilder) AbortRequest() *Adapter {
	return b.ReplyFunc(abortError)
}

// AbortRequestOnce rejects the next matching request as aborted.
func (b *RouteBuilder) AbortRequestOnce() *Adapter {
	return b.ReplyFuncOnce(abortError)
}

func (b *RouteBuilder) register(h *Handler) *Adapter {
	h.verb = b.verb
	h.pattern = b.pattern
	h.route = b.route
	h.body = b.body
	h.headers = matching.NormalizeHeaderRequirement(b.headers)
	h.rule = matching.Rule{Route: h.route, Body: h.body, Headers: h.headers}
	b.adapter.addHandler(h)
	return b.adapter
}
