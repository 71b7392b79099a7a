// Package client is the session-aware Go client for the taskdock API.
//
// # Session handling
//
// The bearer token issued at login/registration is held in a TokenStore
// (a file under the XDG data directory) and attached to every protected
// request. Whenever any call comes back 401 the client clears the stored
// token and returns ErrSessionExpired — token lifecycle is observable here
// and nowhere else. Callers react by prompting for a fresh login; they never
// inspect the token themselves.
//
// # Usage
//
//	tokens := client.NewTokenStore(client.DefaultTokenPath())
//	c := client.New("http://127.0.0.1:8990", tokens)
//	if err := c.Login(ctx, email, password); err != nil { ... }
//	tasks, err := c.Tasks(ctx, client.TaskQuery{Search: "report"})
package client
