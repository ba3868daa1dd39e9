package driven

import "github.com/custodia-labs/proemail-cli/internal/core/domain"

// Presenter is the presentation layer as seen from the core.
// Implementations must be safe to call from any goroutine.
type Presenter interface {
	// Render replaces whatever is shown with view.
	Render(view domain.EventView)

	// Warn shows a single short user-visible message.
	Warn(message string)

	// ShowLoggedIn switches to the signed-in state.
	ShowLoggedIn(email string)

	// ShowLoggedOut switches to the signed-out state.
	ShowLoggedOut()
}
