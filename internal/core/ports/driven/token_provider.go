package driven

import "context"

// TokenProvider provides the current delegated access token for
// authenticated backend and calendar calls.
//
// Adapters hold a TokenProvider instead of a copy of the token so that a
// silent refresh is visible to every caller immediately.
type TokenProvider interface {
	// GetToken returns the current delegated token.
	// Returns domain.ErrAuthRequired when no session is active.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if a delegated token is available.
	IsAuthenticated() bool
}
