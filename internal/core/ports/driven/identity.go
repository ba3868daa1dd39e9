package driven

import (
	"context"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// IdentityProvider performs the OAuth flows against the identity provider.
type IdentityProvider interface {
	// Authenticate runs the interactive login and returns the resulting grant.
	// The grant always carries an ID token and an access token.
	Authenticate(ctx context.Context) (*domain.Grant, error)

	// Refresh silently obtains a new access token.
	Refresh(ctx context.Context, refreshToken string) (*domain.Grant, error)

	// Revoke invalidates a token at the provider.
	Revoke(ctx context.Context, token string) error
}
