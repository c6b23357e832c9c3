// Package match provides asymmetric matchers for request expectations.
//
// A registered handler normally compares the request body, query parameters
// and headers against its expectations with deep equality. Any expectation
// (or any value nested inside one) that implements [Matcher] is instead asked
// whether the actual value satisfies it:
//
//	a.OnPost("/users", match.ObjectContaining(map[string]any{
//	    "name": match.Regexp(`^a`),
//	})).Reply(201, nil, nil)
//
// Actual values are passed in their JSON-normalized form:
//
//   - Body: the request body decoded as JSON (map[string]any, []any, float64,
//     string, bool), or the raw body as a string when it is not JSON.
//   - Query parameters: map[string]any, one string per key or []any of
//     strings for repeated keys.
//   - Headers: map[string]any keyed by canonical header name, same value
//     shapes as query parameters.
//
// Matchers backed by third-party libraries:
//
//   - JSONPath: github.com/ohler55/ojg
//   - Expr: github.com/expr-lang/expr
//   - Schema: github.com/santhosh-tekuri/jsonschema/v5
//   - XPath: github.com/beevik/etree
//   - GraphQL: github.com/vektah/gqlparser/v2
//   - BearerClaims: github.com/golang-jwt/jwt/v5
package match
