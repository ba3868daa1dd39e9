package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// Dashboard is the entry point for presentation-layer events.
// Every mutating call re-renders through the Presenter.
type Dashboard interface {
	// Start restores a cached session and runs the first cycle, or shows
	// the logged-out state.
	Start(ctx context.Context) error

	// Login handles a login request.
	Login(ctx context.Context) error

	// Logout handles a logout request.
	Logout(ctx context.Context) error

	// Refresh runs one fetch cycle.
	Refresh(ctx context.Context) (*domain.CycleReport, error)

	// MarkComplete sets or clears the completed mark for key.
	MarkComplete(ctx context.Context, key string, completed bool) error

	// Delete hides the event with key.
	Delete(ctx context.Context, key string) error

	// Restore un-hides the event with key.
	Restore(ctx context.Context, key string) error

	// AddCustom creates a user event.
	AddCustom(ctx context.Context, event domain.Event) (domain.Event, error)

	// Search sets the active search text and re-renders.
	Search(ctx context.Context, text string) error

	// View builds the current view without rendering it.
	View(ctx context.Context, now time.Time) (*domain.EventView, error)
}
