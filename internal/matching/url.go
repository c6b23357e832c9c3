package matching

import "strings"

// CombineURLs joins baseURL and url with exactly one slash between them.
// An empty baseURL returns url unchanged.
func CombineURLs(baseURL, url string) string {
	if baseURL == "" {
		return url
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(url, "/")
}

// IsURLMatching compares url and a literal pattern after stripping a single
// leading slash from each.
func IsURLMatching(url, required string) bool {
	return strings.TrimPrefix(url, "/") == strings.TrimPrefix(required, "/")
}
