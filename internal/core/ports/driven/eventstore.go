package driven

import (
	"context"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// EventStore persists the user's event state: custom events, completed
// marks, deletion tombstones and the last fetched snapshot.
//
// Keys are produced by domain.Event.Key and are opaque to the store.
type EventStore interface {
	// SaveCustom creates or updates a custom event by ID.
	// A new event is appended after existing ones.
	SaveCustom(ctx context.Context, event *domain.Event) error

	// RemoveCustom deletes a custom event by ID.
	// Removing a missing event is not an error.
	RemoveCustom(ctx context.Context, id string) error

	// ListCustom returns custom events in insertion order.
	ListCustom(ctx context.Context) ([]domain.Event, error)

	// SetCompleted adds or removes a key from the completed set.
	SetCompleted(ctx context.Context, key string, completed bool) error

	// ListCompleted returns the completed keys.
	ListCompleted(ctx context.Context) ([]string, error)

	// AddTombstone records a deletion. An existing tombstone for the same
	// key is replaced.
	AddTombstone(ctx context.Context, tombstone *domain.Tombstone) error

	// RemoveTombstone deletes a tombstone by key.
	// Removing a missing tombstone is not an error.
	RemoveTombstone(ctx context.Context, key string) error

	// ListTombstones returns all tombstones, oldest first.
	ListTombstones(ctx context.Context) ([]domain.Tombstone, error)

	// ReplaceFetched replaces the fetched snapshot, preserving order.
	ReplaceFetched(ctx context.Context, events []domain.Event) error

	// ListFetched returns the fetched snapshot in fetch order.
	ListFetched(ctx context.Context) ([]domain.Event, error)

	// ClearFetched empties the fetched snapshot.
	ClearFetched(ctx context.Context) error
}
