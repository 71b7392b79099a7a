// Package api implements the taskdock REST surface.
//
// # Endpoints
//
//	POST   /api/auth/register   create an account, returns {token}
//	POST   /api/auth/login      verify credentials, returns {token}
//	GET    /api/auth/me         authenticated user's public fields
//	GET    /api/tasks           owner's tasks, ?search= ?completed= ?date=
//	POST   /api/tasks           create a task
//	PUT    /api/tasks/{id}      set the completion flag
//	DELETE /api/tasks/{id}      delete a task
//	GET    /api/user/profile    same shape as /api/auth/me
//	PUT    /api/user/profile    update name and/or email
//	GET    /api/health          liveness probe, unauthenticated
//
// # Error taxonomy
//
// Handlers translate internal failures into a fixed set of responses:
// 401 for anything token-related or bad login credentials, 400 for
// validation problems (including duplicate emails), 404 for owner-scoped
// lookup misses, 500 for the rest. Store error detail is logged, never
// returned to the caller.
//
// # Ownership
//
// Handlers take the requesting user from auth.MustFromContext and pass it to
// the store with every task operation; a task owned by someone else is
// indistinguishable from a missing one (404).
package api
