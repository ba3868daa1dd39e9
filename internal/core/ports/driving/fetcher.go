package driving

import (
	"context"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// Fetcher pulls events out of the user's unread mail.
type Fetcher interface {
	// ListUnread lists unread messages with bounded retry.
	ListUnread(ctx context.Context) ([]domain.MessageRef, error)

	// ExtractEvents extracts events from a single message.
	ExtractEvents(ctx context.Context, messageID string) ([]domain.Event, error)

	// RunCycle lists, extracts and forwards events for one fetch cycle.
	RunCycle(ctx context.Context) (*domain.CycleReport, error)
}
