package match

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

type graphqlMatcher struct {
	operation string
}

// GraphQL matches a GraphQL-over-HTTP request body ({"query": ...,
// "operationName": ...}) whose query document parses and declares an
// operation with the given name. When the body names an operation, that name
// must also equal operation.
func GraphQL(operation string) Matcher {
	return &graphqlMatcher{operation: operation}
}

func (g *graphqlMatcher) Match(actual any) bool {
	data, ok := decodeJSON(actual)
	if !ok {
		return false
	}
	body, ok := data.(map[string]any)
	if !ok {
		return false
	}
	query, ok := body["query"].(string)
	if !ok || query == "" {
		return false
	}
	if name, ok := body["operationName"].(string); ok && name != "" && name != g.operation {
		return false
	}

	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return false
	}
	for _, op := range doc.Operations {
		if op.Name == g.operation {
			return true
		}
	}
	return false
}
