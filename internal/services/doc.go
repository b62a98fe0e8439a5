// Package services implements clients for the external HTTP collaborators.
//
// The remote music catalog is consumed through the [Catalog] interface, whose
// production implementation [CatalogClient] handles both app-level
// (client-credentials) and user-level (authorization code + PKCE) token
// acquisition, lazy refresh on wall-clock expiry, and bearer-authenticated
// reads for search, albums, tracks and the user profile.
//
// Network failures are returned as wrapped errors; callers at the CLI boundary
// downgrade them to user-facing messages rather than terminating.
package services
