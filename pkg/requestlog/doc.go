// Package requestlog records the requests dispatched through an adapter so
// tests can inspect what was sent, which handler answered, and how the
// request settled.
//
// It is distinct from operational logging (log/slog): entries are data that
// callers query, not diagnostics.
//
//	store := requestlog.NewMemoryStore(0)
//	store.Log(&requestlog.Entry{Method: "get", URL: "/users"})
//	gets := store.List(&requestlog.Filter{Method: "get"})
//
// This is a leaf package with no internal dependencies.
package requestlog
