package diskv

import (
	"context"
	"sort"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

type eventStore struct {
	store *Store
}

var _ driven.EventStore = (*eventStore)(nil)

func (s *eventStore) SaveCustom(_ context.Context, event *domain.Event) error {
	if event == nil || event.ID == "" {
		return domain.ErrInvalidInput
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	events, err := s.events(KeyCustom)
	if err != nil {
		return err
	}
	replaced := false
	for i := range events {
		if events[i].ID == event.ID {
			events[i] = *event
			replaced = true
			break
		}
	}
	if !replaced {
		events = append(events, *event)
	}
	return s.store.writeJSON(KeyCustom, events)
}

func (s *eventStore) RemoveCustom(_ context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	events, err := s.events(KeyCustom)
	if err != nil {
		return err
	}
	kept := events[:0]
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return s.store.writeJSON(KeyCustom, kept)
}

func (s *eventStore) ListCustom(_ context.Context) ([]domain.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.events(KeyCustom)
}

func (s *eventStore) SetCompleted(_ context.Context, key string, completed bool) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	keys, err := s.completed()
	if err != nil {
		return err
	}
	set := make(map[string]bool, len(keys)+1)
	for _, k := range keys {
		set[k] = true
	}
	if completed {
		set[key] = true
	} else {
		delete(set, key)
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return s.store.writeJSON(KeyCompleted, out)
}

func (s *eventStore) ListCompleted(_ context.Context) ([]string, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	keys, err := s.completed()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *eventStore) AddTombstone(_ context.Context, tombstone *domain.Tombstone) error {
	if tombstone == nil || tombstone.Key == "" {
		return domain.ErrInvalidInput
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	list, err := s.tombstones()
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].Key == tombstone.Key {
			list[i] = *tombstone
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, *tombstone)
	}
	return s.store.writeJSON(KeyDeleted, list)
}

func (s *eventStore) RemoveTombstone(_ context.Context, key string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	list, err := s.tombstones()
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, t := range list {
		if t.Key != key {
			kept = append(kept, t)
		}
	}
	return s.store.writeJSON(KeyDeleted, kept)
}

func (s *eventStore) ListTombstones(_ context.Context) ([]domain.Tombstone, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.tombstones()
}

func (s *eventStore) ReplaceFetched(_ context.Context, events []domain.Event) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if events == nil {
		events = []domain.Event{}
	}
	return s.store.writeJSON(KeyFetched, events)
}

func (s *eventStore) ListFetched(_ context.Context) ([]domain.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.events(KeyFetched)
}

func (s *eventStore) ClearFetched(_ context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.erase(KeyFetched)
}

func (s *eventStore) events(key string) ([]domain.Event, error) {
	events := []domain.Event{}
	if err := s.store.readJSON(key, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *eventStore) completed() ([]string, error) {
	keys := []string{}
	if err := s.store.readJSON(KeyCompleted, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *eventStore) tombstones() ([]domain.Tombstone, error) {
	list := []domain.Tombstone{}
	if err := s.store.readJSON(KeyDeleted, &list); err != nil {
		return nil, err
	}
	return list, nil
}
