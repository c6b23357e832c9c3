// Package openapi turns an OpenAPI 3 document into a fixture collection:
// one route per operation, answering with the operation's preferred success
// response and its example body.
package openapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/mockadapter/pkg/adapter"
	"github.com/getmockd/mockadapter/pkg/config"
)

// Fragments used for path parameters.
const (
	integerFragment = `\d+`
	segmentFragment = `[^/]+`
)

// Options tune an import.
type Options struct {
	// BaseURL overrides the document's first server URL.
	BaseURL string
	// Name overrides the document title as the collection name.
	Name string
}

// LoadFile loads and validates an OpenAPI document from path.
func LoadFile(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load document from file %s: %w", path, err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

// LoadData loads and validates an OpenAPI document from JSON or YAML bytes.
func LoadData(data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

// ImportFile loads the document at path and imports it.
func ImportFile(path string, opts Options) (*config.Collection, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Import(doc, opts), nil
}

// Import converts doc into a collection. Paths are visited in kin-openapi's
// matching order, so concrete paths precede templated ones. Path parameters
// become known route params: integers match `\d+`, anything else one path
// segment.
func Import(doc *openapi3.T, opts Options) *config.Collection {
	c := &config.Collection{
		Version: config.CurrentVersion,
		Name:    opts.Name,
		Options: &config.Options{BaseURL: opts.BaseURL},
	}
	if c.Name == "" && doc.Info != nil {
		c.Name = doc.Info.Title
	}
	if c.Options.BaseURL == "" && len(doc.Servers) > 0 {
		c.Options.BaseURL = strings.TrimRight(doc.Servers[0].URL, "/")
	}

	known := map[string]string{}
	if doc.Paths == nil {
		return c
	}
	for _, path := range doc.Paths.InMatchingOrder() {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		ops := item.Operations()
		for _, method := range sortedMethods(ops) {
			op := ops[method]
			collectPathParams(known, item.Parameters, op.Parameters)
			c.Routes = append(c.Routes, operationRoute(path, method, op))
		}
	}
	if len(known) > 0 {
		c.Options.KnownRouteParams = known
	}
	return c
}

func sortedMethods(ops map[string]*openapi3.Operation) []string {
	methods := make([]string, 0, len(ops))
	supported := map[string]bool{}
	for _, verb := range adapter.Verbs {
		supported[verb] = true
	}
	for method := range ops {
		if supported[strings.ToLower(method)] {
			methods = append(methods, method)
		}
	}
	sort.Strings(methods)
	return methods
}

func operationRoute(path, method string, op *openapi3.Operation) *config.Route {
	status, resp := bestResponse(op.Responses)
	reply := &config.Reply{Status: status}
	if resp != nil {
		if contentType, body, ok := example(resp.Content); ok {
			reply.Body = body
			reply.Headers = map[string]string{"Content-Type": contentType}
		}
	}
	return &config.Route{
		Name:   op.OperationID,
		Method: strings.ToLower(method),
		URL:    convertPath(path),
		Reply:  reply,
	}
}

// convertPath converts {param} segments to :param.
func convertPath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			parts[i] = ":" + part[1:len(part)-1]
		}
	}
	return strings.Join(parts, "/")
}

func collectPathParams(known map[string]string, groups ...openapi3.Parameters) {
	for _, params := range groups {
		for _, ref := range params {
			if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInPath {
				continue
			}
			token := ":" + ref.Value.Name
			fragment := segmentFragment
			if s := ref.Value.Schema; s != nil && s.Value != nil && s.Value.Type.Is(openapi3.TypeInteger) {
				fragment = integerFragment
			}
			if existing, ok := known[token]; ok && existing != fragment {
				fragment = segmentFragment
			}
			known[token] = fragment
		}
	}
}

// bestResponse prefers 200, 201, 202 and 204, then the lowest 2xx, then the
// lowest explicit status, then "default" as 200.
func bestResponse(responses *openapi3.Responses) (int, *openapi3.Response) {
	if responses == nil || responses.Len() == 0 {
		return http.StatusOK, nil
	}
	byStatus := responses.Map()

	for _, status := range []string{"200", "201", "202", "204"} {
		if ref := byStatus[status]; ref != nil {
			code, _ := strconv.Atoi(status)
			return code, ref.Value
		}
	}

	codes := make([]int, 0, len(byStatus))
	for status := range byStatus {
		if code, err := strconv.Atoi(status); err == nil && code >= 100 && code < 600 {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)
	for _, code := range codes {
		if code >= 200 && code < 300 {
			return code, byStatus[strconv.Itoa(code)].Value
		}
	}
	if len(codes) > 0 {
		return codes[0], byStatus[strconv.Itoa(codes[0])].Value
	}
	if ref := byStatus["default"]; ref != nil {
		return http.StatusOK, ref.Value
	}
	return http.StatusOK, nil
}

// example returns the example body of the preferred media type: JSON
// first, then the lexically first other type.
func example(content openapi3.Content) (string, any, bool) {
	if len(content) == 0 {
		return "", nil, false
	}
	types := make([]string, 0, len(content))
	for ct := range content {
		types = append(types, ct)
	}
	sort.SliceStable(types, func(i, j int) bool {
		ji, jj := strings.Contains(types[i], "json"), strings.Contains(types[j], "json")
		if ji != jj {
			return ji
		}
		return types[i] < types[j]
	})

	for _, ct := range types {
		mt := content[ct]
		if mt == nil {
			continue
		}
		if mt.Example != nil {
			return ct, mt.Example, true
		}
		names := make([]string, 0, len(mt.Examples))
		for name := range mt.Examples {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if ref := mt.Examples[name]; ref != nil && ref.Value != nil && ref.Value.Value != nil {
				return ct, ref.Value.Value, true
			}
		}
		if mt.Schema != nil && mt.Schema.Value != nil && mt.Schema.Value.Example != nil {
			return ct, mt.Schema.Value.Example, true
		}
	}
	return "", nil, false
}
