// Package identity implements driven.IdentityProvider against Google OAuth 2.0.
//
// Interactive login runs the authorization-code flow with PKCE through a
// loopback callback server and asks for offline access so the session can be
// refreshed silently later.
package identity
