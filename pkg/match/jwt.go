package match

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type bearerClaimsMatcher struct {
	claims map[string]any
}

// BearerClaims matches request headers carrying an "Authorization: Bearer
// <jwt>" header whose claims include every expected claim. The token
// signature is not verified.
func BearerClaims(claims map[string]any) Matcher {
	return &bearerClaimsMatcher{claims: claims}
}

func (b *bearerClaimsMatcher) Match(actual any) bool {
	headers, ok := Normalize(actual).(map[string]any)
	if !ok {
		return false
	}

	var auth string
	for k, v := range headers {
		if strings.EqualFold(k, "Authorization") {
			auth, _ = v.(string)
			break
		}
	}
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	for k, expected := range b.claims {
		got, ok := claims[k]
		if !ok || !Equal(got, expected) {
			return false
		}
	}
	return true
}
