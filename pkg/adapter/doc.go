// Package adapter intercepts the requests an *http.Client sends and answers
// them from registered handlers instead of the network.
//
// # Basic Usage
//
// Install the adapter on a client, register handlers, and exercise the code
// under test:
//
//	client := &http.Client{}
//	mock := adapter.New(client, nil)
//	defer mock.Restore()
//
//	mock.OnGet("/users/1").Reply(200, map[string]any{"id": 1}, nil)
//
//	resp, err := client.Get("https://api.example.com/users/1")
//
// String patterns are compared against the request path (one leading slash
// is ignored on both sides) and against the full URL. Regular expressions
// and match.Matcher values are tested against the same two forms.
//
// # Handler Order
//
// Handlers are kept per HTTP verb in registration order and the first
// matching handler answers. Registering a handler with the same pattern, body
// and header expectations as an existing persistent handler replaces it in
// place. One-shot handlers (ReplyOnce, NetworkErrorOnce, ...) are always
// appended and are removed the first time they match:
//
//	mock.OnGet("/foo").NetworkErrorOnce().
//	    OnGet("/foo").Reply(200, nil, nil)
//
// OnAny installs one handler under every verb; consuming a one-shot OnAny
// handler removes it everywhere.
//
// # Request Expectations
//
// The optional second argument of OnVERB is the expected body. For get,
// head, delete and options requests it describes the query parameters
// instead (Params, or an object with a "params" key). The optional third
// argument is the expected headers. Both are compared with deep equality on
// their JSON form unless they implement match.Matcher:
//
//	mock.OnPost("/users", map[string]any{"name": "a"}).Reply(201, nil, nil)
//	mock.OnGet("/search", adapter.Params{"q": "go"}).Reply(200, results, nil)
//	mock.OnGet("/me", nil, match.BearerClaims(map[string]any{"sub": "u1"})).Reply(200, me, nil)
//
// # Route Parameters
//
// Known route parameters turn string patterns into anchored regular
// expressions. Captured values are exposed to reply functions:
//
//	mock := adapter.New(client, &adapter.Options{
//	    KnownRouteParams: map[string]string{":id": `\d+`},
//	})
//	mock.OnGet("/users/:id").ReplyFunc(func(req *adapter.Request) (*adapter.Response, error) {
//	    return adapter.NewResponse(200, map[string]string{"id": req.RouteParams["id"]}, nil), nil
//	})
//
// # Outcomes
//
// Responses are settled through status validation: ValidateStatus when
// configured, otherwise any 2xx status succeeds. Rejected requests surface as
// *Error (wrapped in *url.Error by http.Client):
//
//	var aerr *adapter.Error
//	if errors.As(err, &aerr) && aerr.Response != nil {
//	    log.Println(aerr.Response.Status)
//	}
//
// Unmatched requests are passed to Options.OnNoMatch, or rejected with an
// error matching ErrNoMatch.
package adapter
