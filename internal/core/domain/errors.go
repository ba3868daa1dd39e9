package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrAuthRequired indicates an operation needs a signed-in session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the backend rejected the delegated token (HTTP 401).
	// The session must be cleared and the user returned to the logged-out state.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrLoginFailed indicates the interactive login flow did not complete.
	ErrLoginFailed = errors.New("login failed")

	// ErrTokenRefreshFailed indicates a silent token refresh did not succeed.
	// The previous token stays in place.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrSessionExpired indicates a persisted session is older than the freshness window.
	ErrSessionExpired = errors.New("session expired")

	// Backend Errors.

	// ErrRateLimited indicates the backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrBackendUnavailable indicates the backend could not be reached after retries.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
