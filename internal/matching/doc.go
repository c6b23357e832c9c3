// Package matching decides whether a registered handler matches an outgoing
// request.
//
// It covers three concerns:
//
//   - Route patterns: literal strings (compared after stripping one leading
//     slash), regular expressions, asymmetric matchers, or nil for "match
//     anything". String patterns are rewritten into anchored regular
//     expressions when known route parameters are configured.
//   - Route parameters: validation of the known placeholder map and
//     extraction of placeholder values from a matched URL.
//   - Request predicates: URL, body or query parameters (depending on the
//     method), and headers. Every predicate must hold for a rule to match.
//
// Handlers are evaluated in registration order by the caller; this package
// only answers the per-rule question.
package matching
