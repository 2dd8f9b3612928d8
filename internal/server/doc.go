// Package server provides HTTP routing, middleware, and the web surface of
// the simrai backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] with Go 1.22 method
// patterns ("GET /auth/login").
//
// # Auth Surface
//
// [AuthHandler] exposes the OAuth flow: login redirect, provider callback,
// profile lookup, and unlink. The callback sets the session cookie and
// renders a popup page whose only job is to postMessage a connected/denied
// signal to the opener, pinned to the configured web origin. No credential
// material ever reaches a response body.
//
// # Product Surface
//
// [PlaylistHandler] exposes the authenticated product endpoints: track
// search, playlist creation, and adding tracks. Each request resolves the
// session cookie to a user, obtains a valid access token through the
// refresher, and calls Spotify with it.
//
// # Middleware
//
// [RequestLogger] logs method, path, status, and duration.
// [CORS] admits exactly one configured browser origin and rejects the rest.
// [RateLimit] applies a per-client token bucket using golang.org/x/time/rate.
package server
