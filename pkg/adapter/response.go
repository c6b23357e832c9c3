package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Headers are response headers. Keys are written with http.Header.Set, so
// they are canonicalized on the wire.
type Headers map[string]string

// Clone returns a copy of h.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Response is a mocked response.
//
// Data is encoded when the response is written: []byte and string are sent
// as-is, io.Reader is read, nil produces an empty body, and any other value is
// encoded as JSON with a Content-Type of application/json unless Headers set
// one.
type Response struct {
	Status  int
	Data    any
	Headers Headers
	Request *Request
}

// NewResponse builds a Response for a reply function to return.
func NewResponse(status int, data any, headers Headers) *Response {
	return &Response{Status: status, Data: data, Headers: headers}
}

// Body returns the encoded response body.
func (r *Response) Body() ([]byte, error) {
	body, _, err := encodeData(r.Data)
	return body, err
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	body, err := r.Body()
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func encodeData(data any) (body []byte, isJSON bool, err error) {
	switch d := data.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return d, false, nil
	case json.RawMessage:
		return d, true, nil
	case string:
		return []byte(d), false, nil
	case io.Reader:
		b, err := io.ReadAll(d)
		if err != nil {
			return nil, false, fmt.Errorf("reading response data: %w", err)
		}
		return b, false, nil
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return nil, false, fmt.Errorf("encoding response data: %w", err)
		}
		return b, true, nil
	}
}

// httpResponse renders r as an *http.Response.
func (r *Response) httpResponse() (*http.Response, error) {
	body, isJSON, err := encodeData(r.Data)
	if err != nil {
		return nil, err
	}

	header := make(http.Header, len(r.Headers)+1)
	for k, v := range r.Headers {
		header.Set(k, v)
	}
	if isJSON && header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}
	header.Set("Content-Length", strconv.Itoa(len(body)))

	resp := &http.Response{
		Status:        fmt.Sprintf("%d %s", r.Status, http.StatusText(r.Status)),
		StatusCode:    r.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
	if r.Request != nil {
		resp.Request = r.Request.HTTPRequest
	}
	return resp, nil
}

// responseFromHTTP converts a real response into a Response, reading and
// closing its body.
func responseFromHTTP(raw *http.Response, req *Request) (*Response, error) {
	defer raw.Body.Close()
	body, err := io.ReadAll(raw.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	headers := make(Headers, len(raw.Header))
	for k := range raw.Header {
		headers[k] = raw.Header.Get(k)
	}
	return &Response{Status: raw.StatusCode, Data: body, Headers: headers, Request: req}, nil
}
