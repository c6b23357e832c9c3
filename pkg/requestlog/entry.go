package requestlog

import "time"

// Entry captures one dispatched request and its outcome.
type Entry struct {
	// ID is a unique identifier for the entry.
	ID string `json:"id"`

	// Timestamp is when the request was received by the adapter.
	Timestamp time.Time `json:"timestamp"`

	// Method is the lower-case HTTP method.
	Method string `json:"method"`

	// URL is the request URL relative to BaseURL.
	URL string `json:"url"`

	// BaseURL is the base the URL was resolved against.
	BaseURL string `json:"baseURL,omitempty"`

	// QueryString is the raw query string.
	QueryString string `json:"queryString,omitempty"`

	// Headers are the request headers (multi-value).
	Headers map[string][]string `json:"headers,omitempty"`

	// Body is the request body.
	Body string `json:"body,omitempty"`

	// MatchedHandlerID is the id of the handler that answered (empty if none).
	MatchedHandlerID string `json:"matchedHandlerID,omitempty"`

	// ResponseStatus is the status code of the settled response, if any.
	ResponseStatus int `json:"responseStatus,omitempty"`

	// Error is the rejection message, if the request was rejected.
	Error string `json:"error,omitempty"`

	// DurationMs is the time from dispatch to settlement in milliseconds.
	DurationMs int `json:"durationMs"`
}
