package adapter

import (
	"fmt"

	"github.com/getmockd/mockadapter/internal/matching"
)

// ReplyFunc computes the outcome of a matched request.
type ReplyFunc func(req *Request) (*Response, error)

type replyKind int

const (
	replyStatic replyKind = iota
	replyProducer
	replyPassthrough
)

// Handler is a registered request predicate and its reply.
type Handler struct {
	id      string
	verb    string
	route   *matching.Route
	pattern any
	body    any
	headers any

	kind        replyKind
	status      int
	data        any
	respHeaders Headers
	produce     ReplyFunc
	once        bool

	rule matching.Rule
}

// HandlerInfo describes a registered handler.
type HandlerInfo struct {
	ID          string `json:"id"`
	Method      string `json:"method"`
	Route       string `json:"route"`
	Once        bool   `json:"once,omitempty"`
	Passthrough bool   `json:"passthrough,omitempty"`
}

func (h *Handler) info(method string) HandlerInfo {
	return HandlerInfo{
		ID:          h.id,
		Method:      method,
		Route:       h.route.String(),
		Once:        h.once,
		Passthrough: h.kind == replyPassthrough,
	}
}

// equivalent reports whether h and other expect the same route, body and
// headers. Passthrough handlers carry no header expectation.
func (h *Handler) equivalent(other *Handler) bool {
	if !h.route.Equal(other.route) {
		return false
	}
	if !matching.SameRequirement(h.body, other.body) {
		return false
	}
	return matching.SameRequirement(h.headers, other.headers)
}

// invoke runs a producer. A panic becomes the rejection.
func invoke(fn ReplyFunc, req *Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(error); ok {
				err = fmt.Errorf("reply function panicked: %w", perr)
				return
			}
			err = fmt.Errorf("reply function panicked: %v", r)
		}
	}()
	resp, err = fn(req)
	if err == nil && resp == nil {
		err = fmt.Errorf("reply function for %s %s returned no response", req.Method, req.FullURL())
	}
	return resp, err
}
