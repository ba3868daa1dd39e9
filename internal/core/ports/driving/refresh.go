package driving

import (
	"context"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// TokenRefresher keeps the delegated token alive.
type TokenRefresher interface {
	// Start begins periodic refreshes in the background.
	Start(ctx context.Context) error

	// Refresh performs one silent refresh now.
	Refresh(ctx context.Context) (*domain.Session, error)

	// Stop cancels the loop and waits for an in-flight refresh.
	Stop()

	// Running returns true while the loop is active.
	Running() bool
}
