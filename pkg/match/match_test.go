package match

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	type user struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	tests := []struct {
		name     string
		actual   any
		expected any
		want     bool
	}{
		{name: "nil equals nil", actual: nil, expected: nil, want: true},
		{name: "nil vs value", actual: nil, expected: "x", want: false},
		{name: "int vs float", actual: float64(1), expected: 1, want: true},
		{name: "string mismatch", actual: "a", expected: "b", want: false},
		{
			name:     "typed map vs generic map",
			actual:   map[string]any{"name": "a"},
			expected: map[string]string{"name": "a"},
			want:     true,
		},
		{
			name:     "extra key fails",
			actual:   map[string]any{"name": "a", "x": true},
			expected: map[string]any{"name": "a"},
			want:     false,
		},
		{
			name:     "struct vs decoded json",
			actual:   map[string]any{"name": "a", "age": float64(3)},
			expected: user{Name: "a", Age: 3},
			want:     true,
		},
		{
			name:     "slices compare in order",
			actual:   []any{"a", "b"},
			expected: []string{"b", "a"},
			want:     false,
		},
		{
			name:     "nested matcher",
			actual:   map[string]any{"id": "42", "name": "a"},
			expected: map[string]any{"id": Regexp(`^\d+$`), "name": "a"},
			want:     true,
		},
		{
			name:     "top-level matcher",
			actual:   "anything",
			expected: Any(),
			want:     true,
		},
		{
			name:     "bytes vs string",
			actual:   "raw",
			expected: []byte("raw"),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.actual, tt.expected))
		})
	}
}

func TestObjectContaining(t *testing.T) {
	m := ObjectContaining(map[string]any{"name": "a"})
	assert.True(t, m.Match(map[string]any{"name": "a", "extra": 1.0}))
	assert.False(t, m.Match(map[string]any{"name": "b"}))
	assert.False(t, m.Match("name=a"))
}

func TestNotAndFunc(t *testing.T) {
	isEmpty := Func(func(actual any) bool { return actual == "" })
	assert.True(t, isEmpty.Match(""))
	assert.False(t, Not(isEmpty).Match(""))
	assert.False(t, Func(nil).Match("x"))
}

func TestAllAndEqualTo(t *testing.T) {
	m := All(EqualTo(map[string]any{"a": 1}), Contains(`"a"`))
	assert.True(t, m.Match(map[string]any{"a": 1.0}))
	assert.False(t, m.Match(map[string]any{"a": 2.0}))
	assert.True(t, All().Match(nil))
}

func TestRegexp(t *testing.T) {
	assert.True(t, Regexp(`^a+$`).Match("aaa"))
	assert.False(t, Regexp(`^a+$`).Match(1.0))
	assert.False(t, Regexp(`[invalid`).Match("[invalid"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("needle").Match("haystack with needle"))
	assert.True(t, Contains(`"id":1`).Match(map[string]any{"id": 1.0}))
	assert.False(t, Contains("x").Match(nil))
}

func TestJSONPath(t *testing.T) {
	body := map[string]any{
		"user": map[string]any{
			"name": "ada",
			"tags": []any{"admin", "ops"},
		},
	}

	tests := []struct {
		name       string
		conditions map[string]any
		actual     any
		want       bool
	}{
		{name: "simple value", conditions: map[string]any{"$.user.name": "ada"}, actual: body, want: true},
		{name: "wrong value", conditions: map[string]any{"$.user.name": "bob"}, actual: body, want: false},
		{name: "wildcard any", conditions: map[string]any{"$.user.tags[*]": "ops"}, actual: body, want: true},
		{name: "exists", conditions: map[string]any{"$.user.tags": map[string]any{"exists": true}}, actual: body, want: true},
		{name: "not exists", conditions: map[string]any{"$.user.email": map[string]any{"exists": false}}, actual: body, want: true},
		{name: "raw json string", conditions: map[string]any{"$.id": 1}, actual: `{"id":1}`, want: true},
		{name: "invalid json", conditions: map[string]any{"$.id": 1}, actual: `not json`, want: false},
		{name: "invalid path", conditions: map[string]any{"$[": 1}, actual: body, want: false},
		{name: "no conditions", conditions: nil, actual: "anything", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JSONPath(tt.conditions).Match(tt.actual))
		})
	}
}

func TestExpr(t *testing.T) {
	body := map[string]any{"name": "ada", "age": 36.0}

	assert.True(t, Expr(`name == "ada" && age > 30`).Match(body))
	assert.False(t, Expr(`age < 30`).Match(body))
	assert.True(t, Expr(`value == "plain"`).Match("plain"))
	assert.False(t, Expr(`this is not valid (`).Match(body))
	assert.False(t, Expr(`missing > 1`).Match(body))
}

func TestSchema(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	}

	m := Schema(schema)
	assert.True(t, m.Match(map[string]any{"name": "ada"}))
	assert.False(t, m.Match(map[string]any{"name": 1.0}))
	assert.False(t, m.Match(map[string]any{}))
	assert.True(t, m.Match(`{"name":"raw"}`))

	assert.False(t, Schema(`{"type":`).Match(map[string]any{}))
}

func TestXPath(t *testing.T) {
	doc := `<order id="7"><item><sku>abc</sku></item></order>`

	assert.True(t, XPath(map[string]string{"/order/item/sku": "abc"}).Match(doc))
	assert.True(t, XPath(map[string]string{"/order/@id": "7"}).Match(doc))
	assert.True(t, XPath(map[string]string{"//sku": "abc"}).Match([]byte(doc)))
	assert.False(t, XPath(map[string]string{"/order/item/sku": "xyz"}).Match(doc))
	assert.False(t, XPath(map[string]string{"/order/missing": ""}).Match(doc))
	assert.False(t, XPath(map[string]string{"/order": "x"}).Match(map[string]any{}))
}

func TestGraphQL(t *testing.T) {
	body := map[string]any{
		"query": `query GetUser($id: ID!) { user(id: $id) { name } }`,
	}

	assert.True(t, GraphQL("GetUser").Match(body))
	assert.False(t, GraphQL("ListUsers").Match(body))
	assert.True(t, GraphQL("GetUser").Match(`{"query":"query GetUser { me { id } }","operationName":"GetUser"}`))
	assert.False(t, GraphQL("GetUser").Match(map[string]any{"query": "query GetUser {", "operationName": "GetUser"}))
	assert.False(t, GraphQL("GetUser").Match(map[string]any{"query": body["query"], "operationName": "Other"}))
}

func TestBearerClaims(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"scope": "read",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	headers := map[string]any{"Authorization": "Bearer " + token}

	assert.True(t, BearerClaims(map[string]any{"sub": "user-1"}).Match(headers))
	assert.False(t, BearerClaims(map[string]any{"sub": "user-2"}).Match(headers))
	assert.False(t, BearerClaims(map[string]any{"sub": "user-1"}).Match(map[string]any{"Authorization": "Basic abc"}))
	assert.False(t, BearerClaims(map[string]any{"sub": "user-1"}).Match(map[string]any{"Authorization": "Bearer not.a.jwt"}))
}

func TestGlob(t *testing.T) {
	m := Glob("/users/*/posts/**")
	assert.True(t, m.Match("/users/1/posts/2/comments"))
	assert.True(t, m.Match("/users/1/posts/"))
	assert.False(t, m.Match("/users/1/2/posts/3"))
	assert.False(t, m.Match(nil))

	assert.False(t, Glob("/users/[").Match("/users/["))
}
