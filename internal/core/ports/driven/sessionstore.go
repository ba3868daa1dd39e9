package driven

import (
	"context"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// SessionStore persists the signed-in session.
type SessionStore interface {
	// Load returns the persisted session.
	// Returns nil and no error if none is stored.
	Load(ctx context.Context) (*domain.Session, error)

	// Save replaces the persisted session.
	Save(ctx context.Context, session *domain.Session) error

	// Clear removes the persisted session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
