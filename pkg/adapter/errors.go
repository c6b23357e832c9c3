package adapter

import (
	"fmt"
	"strings"
)

// ErrorKind classifies adapter errors.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota + 1
	KindAbort
	KindTimeout
	KindStatus
	KindNoMatch
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAbort:
		return "abort"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindNoMatch:
		return "no match"
	default:
		return "unknown"
	}
}

// CodeConnAborted is the Code of abort and timeout errors.
const CodeConnAborted = "ECONNABORTED"

// Error is the rejection produced by mocked failures, failed status
// validation and unmatched requests.
type Error struct {
	Kind     ErrorKind
	Message  string
	Code     string
	Request  *Request
	Response *Response

	// IsAdapterError is set on every error built by the adapter.
	IsAdapterError bool

	sentinel bool
}

// Sentinel errors for errors.Is.
var (
	ErrNetwork = &Error{Kind: KindNetwork, Message: "Network Error", sentinel: true}
	ErrAborted = &Error{Kind: KindAbort, Message: "Request aborted", sentinel: true}
	ErrTimeout = &Error{Kind: KindTimeout, Message: "timeout", sentinel: true}
	ErrStatus  = &Error{Kind: KindStatus, Message: "Request failed with status code", sentinel: true}
	ErrNoMatch = &Error{Kind: KindNoMatch, Message: "no matching handler", sentinel: true}
)

// NewError builds an adapter error.
func NewError(kind ErrorKind, message string, req *Request, resp *Response, code string) *Error {
	return &Error{
		Kind:           kind,
		Message:        message,
		Code:           code,
		Request:        req,
		Response:       resp,
		IsAdapterError: true,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.sentinel {
		return false
	}
	return t.Kind == e.Kind
}

// Timeout reports whether e is a timeout. It lets net.Error style checks see
// mocked timeouts.
func (e *Error) Timeout() bool {
	return e.Kind == KindTimeout
}

func networkError(req *Request) (*Response, error) {
	return nil, NewError(KindNetwork, "Network Error", req, nil, "")
}

func abortError(req *Request) (*Response, error) {
	return nil, NewError(KindAbort, "Request aborted", req, nil, CodeConnAborted)
}

func timeoutError(req *Request) (*Response, error) {
	msg := req.TimeoutErrorMessage
	if msg == "" {
		msg = fmt.Sprintf("timeout of %dms exceeded", req.Timeout.Milliseconds())
	}
	return nil, NewError(KindTimeout, msg, req, nil, CodeConnAborted)
}

func statusError(resp *Response) *Error {
	return NewError(KindStatus,
		fmt.Sprintf("Request failed with status code %d", resp.Status),
		resp.Request, resp, "")
}

func noMatchError(req *Request) *Error {
	return NewError(KindNoMatch,
		fmt.Sprintf("no handler matched %s %s", strings.ToUpper(req.Method), req.FullURL()),
		req, nil, "")
}
