package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/mockadapter/internal/matching"
	"github.com/getmockd/mockadapter/pkg/adapter"
)

// ValidationError is a single fixture problem.
type ValidationError struct {
	Path    string // e.g. "routes[2].reply.status"
	Message string
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationResult collects every problem found in a Collection.
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Error returns the problems one per line.
func (r *ValidationResult) Error() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// AddError adds a validation error.
func (r *ValidationResult) AddError(path, message string) {
	r.Errors = append(r.Errors, ValidationError{Path: path, Message: message})
}

var validMethods = func() map[string]bool {
	m := map[string]bool{"any": true}
	for _, verb := range adapter.Verbs {
		m[verb] = true
	}
	return m
}()

var validErrors = map[string]bool{
	ErrorNetwork: true,
	ErrorTimeout: true,
	ErrorAbort:   true,
}

// Validate checks c and returns every problem found.
func Validate(c *Collection) *ValidationResult {
	result := &ValidationResult{}
	if c == nil {
		result.AddError("", "collection is nil")
		return result
	}

	if c.Version != "" && c.Version != CurrentVersion {
		result.AddError("version", fmt.Sprintf("unsupported version %q, expected %q", c.Version, CurrentVersion))
	}
	if c.Options != nil {
		validateOptions(c.Options, result)
	}
	for i, r := range c.Routes {
		validateRoute(r, fmt.Sprintf("routes[%d]", i), result)
	}
	return result
}

func validateOptions(o *Options, result *ValidationResult) {
	if o.DelayResponse < 0 {
		result.AddError("options.delayResponse", "must not be negative")
	}
	if o.Timeout < 0 {
		result.AddError("options.timeout", "must not be negative")
	}
	switch o.OnNoMatch {
	case "", "error", "passthrough":
	default:
		result.AddError("options.onNoMatch", fmt.Sprintf("unknown policy %q, expected error or passthrough", o.OnNoMatch))
	}
}

func validateRoute(r *Route, path string, result *ValidationResult) {
	if r == nil {
		result.AddError(path, "route is empty")
		return
	}

	method := strings.ToLower(r.Method)
	if method == "" {
		result.AddError(path+".method", "required")
	} else if !validMethods[method] {
		result.AddError(path+".method", fmt.Sprintf("unsupported method %q", r.Method))
	}

	patterns := 0
	for _, p := range []string{r.URL, r.URLPattern, r.Glob} {
		if p != "" {
			patterns++
		}
	}
	if patterns > 1 {
		result.AddError(path, "only one of url, urlPattern and glob may be set")
	}
	if r.URLPattern != "" {
		if _, err := regexp.Compile(r.URLPattern); err != nil {
			result.AddError(path+".urlPattern", err.Error())
		}
	}
	if r.Glob != "" && !doublestar.ValidatePattern(r.Glob) {
		result.AddError(path+".glob", fmt.Sprintf("invalid glob %q", r.Glob))
	}

	hasBody := r.Body != nil || r.Match.hasBodyMatchers()
	switch {
	case method == "any":
		if hasBody && len(r.Params) > 0 {
			result.AddError(path, "any routes take either params or a body expectation")
		}
	case matching.UsesParams(method):
		if hasBody {
			result.AddError(path+".body", fmt.Sprintf("%s routes match query params, not the body", method))
		}
	case method != "":
		if len(r.Params) > 0 {
			result.AddError(path+".params", fmt.Sprintf("%s routes match the body, not query params", method))
		}
	}

	outcomes := 0
	if r.Reply != nil {
		outcomes++
		if r.Reply.Status < 100 || r.Reply.Status > 599 {
			result.AddError(path+".reply.status", fmt.Sprintf("invalid status code %d", r.Reply.Status))
		}
	}
	if r.Error != "" {
		outcomes++
		if !validErrors[r.Error] {
			result.AddError(path+".error", fmt.Sprintf("unknown error %q, expected network, timeout or abort", r.Error))
		}
	}
	if r.Passthrough {
		outcomes++
		if r.Once {
			result.AddError(path+".once", "passthrough routes cannot be one-shot")
		}
		if len(r.Headers) > 0 || (r.Match != nil && len(r.Match.BearerClaims) > 0) {
			result.AddError(path+".headers", "passthrough routes do not match on headers")
		}
	}
	switch outcomes {
	case 0:
		result.AddError(path, "one of reply, error or passthrough is required")
	case 1:
	default:
		result.AddError(path, "only one of reply, error and passthrough may be set")
	}
}
