package adapter

import (
	"errors"
	"time"

	"github.com/getmockd/mockadapter/internal/id"
	"github.com/getmockd/mockadapter/pkg/requestlog"
)

// record stores the request and its outcome in the history.
func (a *Adapter) record(req *Request, h *Handler, out outcome, start time.Time) {
	entry := &requestlog.Entry{
		ID:          id.UUID(),
		Timestamp:   start,
		Method:      req.Method,
		URL:         req.URL,
		BaseURL:     req.BaseURL,
		QueryString: req.Params.Encode(),
		Headers:     map[string][]string(req.Header.Clone()),
		Body:        string(req.Body),
		DurationMs:  int(timeNow().Sub(start).Milliseconds()),
	}
	if h != nil {
		entry.MatchedHandlerID = h.id
	}

	switch {
	case out.err != nil:
		entry.Error = out.err.Error()
		var aerr *Error
		if errors.As(out.err, &aerr) && aerr.Response != nil {
			entry.ResponseStatus = aerr.Response.Status
		}
	case out.raw != nil:
		entry.ResponseStatus = out.raw.StatusCode
	case out.resp != nil:
		entry.ResponseStatus = out.resp.Status
	}

	a.history.Log(entry)
}
