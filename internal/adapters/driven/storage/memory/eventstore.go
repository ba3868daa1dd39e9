package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

// Ensure EventStore implements the interface.
var _ driven.EventStore = (*EventStore)(nil)

// EventStore is an in-memory implementation of driven.EventStore.
// Slices are copied on the way in and out so callers never share memory
// with the store.
type EventStore struct {
	mu         sync.RWMutex
	custom     []domain.Event
	completed  map[string]bool
	tombstones []domain.Tombstone
	fetched    []domain.Event
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		completed: make(map[string]bool),
	}
}

// SaveCustom creates or updates a custom event by ID.
func (s *EventStore) SaveCustom(_ context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.custom {
		if s.custom[i].ID == event.ID {
			s.custom[i] = *event
			return nil
		}
	}
	s.custom = append(s.custom, *event)
	return nil
}

// RemoveCustom deletes a custom event by ID.
func (s *EventStore) RemoveCustom(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.custom {
		if s.custom[i].ID == id {
			s.custom = append(s.custom[:i], s.custom[i+1:]...)
			return nil
		}
	}
	return nil
}

// ListCustom returns custom events in insertion order.
func (s *EventStore) ListCustom(_ context.Context) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Event{}, s.custom...), nil
}

// SetCompleted adds or removes a key from the completed set.
func (s *EventStore) SetCompleted(_ context.Context, key string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if completed {
		s.completed[key] = true
	} else {
		delete(s.completed, key)
	}
	return nil
}

// ListCompleted returns the completed keys in sorted order.
func (s *EventStore) ListCompleted(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.completed))
	for k := range s.completed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// AddTombstone records a deletion, replacing any tombstone with the same key.
func (s *EventStore) AddTombstone(_ context.Context, tombstone *domain.Tombstone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tombstones {
		if s.tombstones[i].Key == tombstone.Key {
			s.tombstones[i] = *tombstone
			return nil
		}
	}
	s.tombstones = append(s.tombstones, *tombstone)
	return nil
}

// RemoveTombstone deletes a tombstone by key.
func (s *EventStore) RemoveTombstone(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tombstones {
		if s.tombstones[i].Key == key {
			s.tombstones = append(s.tombstones[:i], s.tombstones[i+1:]...)
			return nil
		}
	}
	return nil
}

// ListTombstones returns tombstones in insertion order.
func (s *EventStore) ListTombstones(_ context.Context) ([]domain.Tombstone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Tombstone{}, s.tombstones...), nil
}

// ReplaceFetched replaces the fetched snapshot.
func (s *EventStore) ReplaceFetched(_ context.Context, events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = append([]domain.Event{}, events...)
	return nil
}

// ListFetched returns the fetched snapshot.
func (s *EventStore) ListFetched(_ context.Context) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Event{}, s.fetched...), nil
}

// ClearFetched empties the fetched snapshot.
func (s *EventStore) ClearFetched(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = nil
	return nil
}
