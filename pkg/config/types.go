package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the fixture format version written by this package.
const CurrentVersion = "1"

// Collection is the root of a fixture file.
type Collection struct {
	Version string   `json:"version" yaml:"version"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Options *Options `json:"options,omitempty" yaml:"options,omitempty"`
	Routes  []*Route `json:"routes" yaml:"routes"`
}

// Options mirror adapter.Options for the fields a file can express.
type Options struct {
	BaseURL             string            `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	DelayResponse       Duration          `json:"delayResponse,omitempty" yaml:"delayResponse,omitempty"`
	Timeout             Duration          `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	TimeoutErrorMessage string            `json:"timeoutErrorMessage,omitempty" yaml:"timeoutErrorMessage,omitempty"`
	KnownRouteParams    map[string]string `json:"knownRouteParams,omitempty" yaml:"knownRouteParams,omitempty"`
	// AcceptAnyStatus resolves every status instead of only 2xx.
	AcceptAnyStatus bool `json:"acceptAnyStatus,omitempty" yaml:"acceptAnyStatus,omitempty"`
	// OnNoMatch is "error" (default) or "passthrough".
	OnNoMatch string `json:"onNoMatch,omitempty" yaml:"onNoMatch,omitempty"`
}

// Route describes one handler. At most one of URL, URLPattern and Glob may
// be set; none matches every URL.
type Route struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Method string `json:"method" yaml:"method"`

	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	URLPattern string `json:"urlPattern,omitempty" yaml:"urlPattern,omitempty"`
	Glob       string `json:"glob,omitempty" yaml:"glob,omitempty"`

	// Body is the expected request body. Params is the expected query
	// string, used for get, head, delete and options routes.
	Body    any               `json:"body,omitempty" yaml:"body,omitempty"`
	Params  map[string]any    `json:"params,omitempty" yaml:"params,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Match   *MatchSpec        `json:"match,omitempty" yaml:"match,omitempty"`

	Reply       *Reply `json:"reply,omitempty" yaml:"reply,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
	Passthrough bool   `json:"passthrough,omitempty" yaml:"passthrough,omitempty"`
	Once        bool   `json:"once,omitempty" yaml:"once,omitempty"`
}

// MatchSpec holds matcher-based expectations. Every field set must match.
type MatchSpec struct {
	JSONPath     map[string]any    `json:"jsonPath,omitempty" yaml:"jsonPath,omitempty"`
	Expr         string            `json:"expr,omitempty" yaml:"expr,omitempty"`
	Schema       any               `json:"schema,omitempty" yaml:"schema,omitempty"`
	XPath        map[string]string `json:"xpath,omitempty" yaml:"xpath,omitempty"`
	GraphQL      string            `json:"graphql,omitempty" yaml:"graphql,omitempty"`
	BodyContains string            `json:"bodyContains,omitempty" yaml:"bodyContains,omitempty"`
	BearerClaims map[string]any    `json:"bearerClaims,omitempty" yaml:"bearerClaims,omitempty"`
}

// hasBodyMatchers reports whether m constrains the request body.
func (m *MatchSpec) hasBodyMatchers() bool {
	if m == nil {
		return false
	}
	return len(m.JSONPath) > 0 || m.Expr != "" || m.Schema != nil ||
		len(m.XPath) > 0 || m.GraphQL != "" || m.BodyContains != ""
}

// Reply is a static response.
type Reply struct {
	Status  int               `json:"status" yaml:"status"`
	Body    any               `json:"body,omitempty" yaml:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Route errors.
const (
	ErrorNetwork = "network"
	ErrorTimeout = "timeout"
	ErrorAbort   = "abort"
)

// Duration is a time.Duration that marshals as a string and unmarshals from
// a duration string or a number of milliseconds.
type Duration time.Duration

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON marshals the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON unmarshals a duration string or milliseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var ms int64
		if err := json.Unmarshal(data, &ms); err != nil {
			return fmt.Errorf("invalid duration %s", data)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	return d.parse(s)
}

// MarshalYAML marshals the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML unmarshals a duration string or milliseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var ms int64
	if node.Tag == "!!int" && node.Decode(&ms) == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration at line %d: %w", node.Line, err)
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}
