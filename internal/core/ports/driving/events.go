package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// EventService reconciles and mutates the user's event state.
type EventService interface {
	// Reconcile merges custom and fetched events and removes tombstoned ones.
	Reconcile(ctx context.Context, fetched []domain.Event) ([]domain.Event, error)

	// Classify partitions events by status.
	Classify(ctx context.Context, events []domain.Event, now time.Time) (*domain.Classification, error)

	// Summarize computes dashboard counters.
	Summarize(events []domain.ClassifiedEvent, now time.Time) domain.Summary

	// Search filters events by case-insensitive text.
	Search(events []domain.ClassifiedEvent, text string) []domain.ClassifiedEvent

	// BuildView reconciles, classifies and filters events for rendering.
	BuildView(ctx context.Context, fetched []domain.Event, now time.Time, query string) (*domain.EventView, error)

	// Key returns the key used to address an event.
	Key(event *domain.Event) string

	// MarkComplete sets or clears the completed mark for key.
	MarkComplete(ctx context.Context, key string, completed bool) (bool, error)

	// Delete tombstones key.
	Delete(ctx context.Context, key string) (bool, error)

	// Restore removes the tombstone for key.
	Restore(ctx context.Context, key string) (bool, error)

	// AddCustom validates and persists a user-created event.
	AddCustom(ctx context.Context, event domain.Event) (domain.Event, error)

	// Tombstones lists deleted events.
	Tombstones(ctx context.Context) ([]domain.Tombstone, error)

	// Snapshot returns the cached fetched events.
	Snapshot(ctx context.Context) ([]domain.Event, error)

	// SaveSnapshot replaces the cached fetched events.
	SaveSnapshot(ctx context.Context, events []domain.Event) error

	// ClearSnapshot empties the cached fetched events.
	ClearSnapshot(ctx context.Context) error
}
