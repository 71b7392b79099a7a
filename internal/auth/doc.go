// Package auth provides authentication for taskdock.
//
// # Token Service
//
// Identity tokens are stateless JWTs signed with HS256 using the configured
// jwt_secret. A token binds a user ID ("sub" claim) to an expiration instant
// fixed at issuance; validity is fully determined by signature and expiry,
// with no server-side session table. Rotating the secret invalidates every
// outstanding token.
//
//	codec, err := auth.NewJWTCodec(secret, 24*time.Hour)
//	token, err := codec.Issue(userID)
//	userID, err := codec.Verify(token)
//
// # Auth Gate
//
// Middleware wraps protected handlers. It extracts the bearer token from the
// Authorization header, verifies it, and binds the resolved identity into the
// request context:
//
//	mux.Handle("GET /api/tasks", auth.Middleware(codec, logger)(handler))
//
// Handlers retrieve the identity with auth.MustFromContext(ctx) and must use
// it as the ownership filter for every data operation.
//
// All verification failures surface to the caller as an identical 401
// response; the sub-reason (expired, tampered, malformed) is only logged.
//
// # Passwords
//
// Passwords are hashed with bcrypt. Login compares against a dummy hash when
// the email is unknown so the two failure modes are indistinguishable by
// timing as well as by response body.
package auth
