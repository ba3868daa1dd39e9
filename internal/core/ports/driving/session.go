package driving

import (
	"context"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// SessionService owns the signed-in session.
type SessionService interface {
	// Load restores a persisted session if it is still fresh.
	// Returns nil and no error when there is nothing to restore.
	Load(ctx context.Context) (*domain.Session, error)

	// Login runs the interactive login and persists the new session.
	Login(ctx context.Context) (*domain.Session, error)

	// Logout revokes the delegated token and clears the session.
	Logout(ctx context.Context) error

	// Invalidate clears the session without contacting the provider.
	Invalidate(ctx context.Context) error

	// Current returns a copy of the active session, or nil.
	Current() *domain.Session

	// IsLoggedIn returns true if a session is active.
	IsLoggedIn() bool

	// UpdateGrant applies a refreshed grant to the active session.
	UpdateGrant(ctx context.Context, grant domain.Grant) error

	// Generation increments on every login and every session clear.
	Generation() uint64
}
