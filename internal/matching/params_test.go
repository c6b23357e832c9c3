package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRouteParams(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		want RouteParams
	}{
		{name: "nil", raw: nil, want: nil},
		{name: "colon token", raw: map[string]string{":id": `\d+`}, want: RouteParams{":id": `\d+`}},
		{name: "brace token", raw: map[string]string{"{id}": `\d+`}, want: RouteParams{"{id}": `\d+`}},
		{
			name: "malformed keys dropped",
			raw:  map[string]string{":id": `\d+`, "id": `\w+`, "{}": `.*`, ":": `.*`},
			want: RouteParams{":id": `\d+`},
		},
		{name: "nothing valid collapses to nil", raw: map[string]string{"id": `\d+`}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRouteParams(tt.raw))
		})
	}
}

func TestParamName(t *testing.T) {
	name, ok := ParamName(":id")
	assert.True(t, ok)
	assert.Equal(t, "id", name)

	name, ok = ParamName("{slug}")
	assert.True(t, ok)
	assert.Equal(t, "slug", name)

	_, ok = ParamName("plain")
	assert.False(t, ok)
}

func TestExtractRouteParams(t *testing.T) {
	known := RouteParams{":userId": `\d+`, "{file}": `[\w.]+`}

	t.Run("captures segments in order", func(t *testing.T) {
		got := ExtractRouteParams(known, "/users/:userId/files/{file}", "/users/42/files/a.txt", "")
		assert.Equal(t, map[string]string{"userId": "42", "file": "a.txt"}, got)
	})

	t.Run("falls back to base url form", func(t *testing.T) {
		got := ExtractRouteParams(known, "https://api.test/users/:userId", "/users/7", "https://api.test")
		assert.Equal(t, map[string]string{"userId": "7"}, got)
	})

	t.Run("no match yields empty", func(t *testing.T) {
		got := ExtractRouteParams(known, "/users/:userId", "/users/abc", "")
		assert.Empty(t, got)
	})

	t.Run("no known params", func(t *testing.T) {
		assert.Empty(t, ExtractRouteParams(nil, "/users/:userId", "/users/1", ""))
	})

	t.Run("non string pattern", func(t *testing.T) {
		assert.Empty(t, ExtractRouteParams(known, 42, "/users/1", ""))
	})
}
