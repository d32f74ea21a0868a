// Package server provides HTTP routing, middleware, and JSON handlers for the score API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("POST /path/{wildcard}").
// Router-wide middleware (panic recovery, request logging) wraps route middleware (rate limit, body cap, auth).
//
// # Authentication
//
// Bearer tokens are HMAC signed JWTs issued by another service. [Authenticator] verifies the signature,
// expiry and issuer; the subject claim is the player's username and the admin claim unlocks chart
// maintenance routes. Token issuance and registration are not handled here.
//
// # Routes
//
// All routes live under [APIPrefix]:
//   - GET    /health
//   - POST   /chart/                        upload a chart file (token)
//   - POST   /chart/submit-meta             register a chart from metadata (admin)
//   - GET    /chart/sha3/{fingerprint}
//   - DELETE /chart/sha3/{fingerprint}      (admin)
//   - GET    /song/{id}
//   - POST   /score/                        submit a score (token)
//   - GET    /score/partial/{fingerprint}   (token)
//
// # Errors
//
// Errors are JSON bodies of the form {"detail": "...", "field": "..."}; [StatusFor] maps the
// shared error taxonomy onto status codes. Unexpected errors are logged and answered with a generic 500.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
