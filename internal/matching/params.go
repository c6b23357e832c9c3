package matching

import (
	"regexp"
	"sort"
	"strings"
)

// placeholderPattern is the accepted syntax for route parameter tokens:
// ":name" or "{name}".
var placeholderPattern = regexp.MustCompile(`^:(.+)|\{(.+)\}$`)

// RouteParams maps placeholder tokens (":id", "{id}") to the regular
// expression fragment their value must satisfy. A nil RouteParams means no
// known parameters are configured.
type RouteParams map[string]string

// ResolveRouteParams keeps only the entries whose key uses placeholder
// syntax. It returns nil when no key qualifies. Malformed keys are dropped
// silently.
func ResolveRouteParams(raw map[string]string) RouteParams {
	if len(raw) == 0 {
		return nil
	}

	valid := make(RouteParams)
	for token, fragment := range raw {
		if placeholderPattern.MatchString(token) {
			valid[token] = fragment
		}
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}

// tokens returns the configured tokens, longest first, so that a token that
// is a prefix of another (":id" and ":idx") never clobbers it during
// substitution.
func (p RouteParams) tokens() []string {
	out := make([]string, 0, len(p))
	for token := range p {
		out = append(out, token)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// ParamName returns the bare parameter name of a placeholder token
// (":id" -> "id", "{id}" -> "id").
func ParamName(token string) (string, bool) {
	m := placeholderPattern.FindStringSubmatch(token)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	if m[2] != "" {
		return m[2], true
	}
	return "", false
}

// ExtractRouteParams captures the values of the known placeholders used as
// whole path segments of pattern. The bare url is tried first, then url
// combined with baseURL. It returns an empty map when nothing is captured.
func ExtractRouteParams(known RouteParams, pattern any, url, baseURL string) map[string]string {
	params := make(map[string]string)

	route, ok := pattern.(string)
	if !ok || known == nil {
		return params
	}

	segments := strings.Split(route, "/")
	var used []string
	for i, segment := range segments {
		fragment, isKnown := known[segment]
		if !isKnown {
			continue
		}
		used = append(used, segment)
		segments[i] = "(" + fragment + ")"
	}
	if len(used) == 0 {
		return params
	}

	re, err := regexp.Compile("^" + strings.Join(segments, "/") + "$")
	if err != nil {
		return params
	}

	matches := re.FindStringSubmatch(url)
	if matches == nil {
		matches = re.FindStringSubmatch(CombineURLs(baseURL, url))
	}
	if matches == nil {
		return params
	}

	for i, token := range used {
		name, ok := ParamName(token)
		if !ok || i+1 >= len(matches) {
			continue
		}
		params[name] = matches[i+1]
	}
	return params
}
