// Package server provides HTTP routing, middleware, and the OAuth callback handler for the CLI auth flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), delegates the
// code exchange to an [Exchanger], and sends the result through a channel.
// The exchanger owns PKCE verification and refresh-token persistence.
//
// It only processes one callback to prevent replay attacks.
//
// # Current Usage
//
// When the user runs `tunedock auth login`, a temporary HTTP server starts on
// localhost:3000, handles the callback, and shuts down after the flow
// completes.
package server
