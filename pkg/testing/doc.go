// Package testing wires a mock adapter into Go tests.
//
// # Basic Usage
//
// Create a mock, configure expectations, and hand its client to the code
// under test:
//
//	func TestMyAPI(t *testing.T) {
//	    mock := mocktesting.New(t)
//
//	    mock.Expect("GET", "/users/123").
//	        WithJSON(map[string]string{"id": "123", "name": "Test User"}).
//	        Reply()
//
//	    resp, err := mock.Client().Get("https://api.example.com/users/123")
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer resp.Body.Close()
//
//	    mock.AssertCalled(t, "GET", "/users/123")
//	}
//
// The adapter is restored when the test finishes. Its full registration API
// (OnGet, OnPost, ReplyOnce, NetworkError, ...) is available on the Mock as
// well.
//
// # Request Matching
//
//	mock.Expect("GET", "/search").
//	    WithQueryParam("q", "test").
//	    WithJSON(results).
//	    Reply()
//
//	mock.Expect("POST", "/api/data").
//	    WithRequestHeader("Authorization", "Bearer token123").
//	    WithBodyContains("important").
//	    WithStatus(201).
//	    Reply()
//
// # Limited Responses
//
//	mock.Expect("GET", "/api/once").Times(1).Reply()
//	mock.AssertAllConsumed(t)
//
// # Fixtures
//
// NewFromFixture loads a fixture file (see package config) and registers its
// routes with its options:
//
//	mock := mocktesting.NewFromFixture(t, "testdata/users.yaml")
//
// # Assertions
//
//	mock.AssertCalledTimes(t, "POST", "/api/create", 3)
//	mock.AssertNotCalled(t, "DELETE", "/api/items/{id}")
//
//	for _, req := range mock.Requests() {
//	    req.AssertHeader(t, "Content-Type", "application/json")
//	}
//
// # OAuth2
//
// OAuth2Context routes golang.org/x/oauth2 token requests through the mock:
//
//	cfg := clientcredentials.Config{TokenURL: "https://auth.example.com/token"}
//	client := cfg.Client(mock.OAuth2Context(ctx))
package testing
