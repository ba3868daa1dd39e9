package driven

import (
	"context"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// CalendarSink receives extracted events for insertion into a calendar.
type CalendarSink interface {
	// AddEvent inserts one event.
	// Returns domain.ErrAuthExpired if the delegated token was rejected.
	AddEvent(ctx context.Context, event *domain.Event) error
}
