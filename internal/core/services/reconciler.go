package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

// Ensure Reconciler implements the interface.
var _ driving.EventService = (*Reconciler)(nil)

// Reconciler merges fetched and custom events and owns the user's event
// state. All mutations go through a single mutex.
type Reconciler struct {
	store   driven.EventStore
	keyMode domain.KeyMode
	now     func() time.Time

	mu sync.Mutex
}

// NewReconciler creates a reconciler. An invalid key mode falls back to
// keying by ID.
func NewReconciler(store driven.EventStore, keyMode domain.KeyMode) *Reconciler {
	if !keyMode.IsValid() {
		keyMode = domain.KeyByID
	}
	return &Reconciler{
		store:   store,
		keyMode: keyMode,
		now:     time.Now,
	}
}

// Key returns the key used to address an event.
func (r *Reconciler) Key(event *domain.Event) string {
	return event.Key(r.keyMode)
}

// Reconcile returns custom events in insertion order followed by fetched
// events in fetch order, without tombstoned keys and with each key once.
func (r *Reconciler) Reconcile(ctx context.Context, fetched []domain.Event) ([]domain.Event, error) {
	custom, err := r.store.ListCustom(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custom events: %w", err)
	}
	deleted, err := r.tombstoneKeys(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(custom)+len(fetched))
	out := make([]domain.Event, 0, len(custom)+len(fetched))
	for _, group := range [][]domain.Event{custom, fetched} {
		for i := range group {
			key := r.Key(&group[i])
			if deleted[key] || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, group[i])
		}
	}
	return out, nil
}

// Classify partitions events by status, preserving order within each status.
func (r *Reconciler) Classify(ctx context.Context, events []domain.Event, now time.Time) (*domain.Classification, error) {
	classified, err := r.classify(ctx, events, now)
	if err != nil {
		return nil, err
	}

	c := &domain.Classification{}
	for _, ce := range classified {
		switch ce.Status {
		case domain.StatusCompleted:
			c.Completed = append(c.Completed, ce)
		case domain.StatusMissed:
			c.Missed = append(c.Missed, ce)
		default:
			c.Upcoming = append(c.Upcoming, ce)
		}
	}
	return c, nil
}

func (r *Reconciler) classify(ctx context.Context, events []domain.Event, now time.Time) ([]domain.ClassifiedEvent, error) {
	completed, err := r.completedKeys(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ClassifiedEvent, 0, len(events))
	for i := range events {
		key := r.Key(&events[i])
		out = append(out, domain.ClassifiedEvent{
			Event:  events[i],
			Key:    key,
			Status: domain.Classify(&events[i], completed[key], now),
		})
	}
	return out, nil
}

// Summarize computes dashboard counters.
func (r *Reconciler) Summarize(events []domain.ClassifiedEvent, now time.Time) domain.Summary {
	return domain.Summarize(events, now)
}

// Search returns the events matching text. Empty text matches everything.
func (r *Reconciler) Search(events []domain.ClassifiedEvent, text string) []domain.ClassifiedEvent {
	out := make([]domain.ClassifiedEvent, 0, len(events))
	for i := range events {
		if events[i].Event.Matches(text) {
			out = append(out, events[i])
		}
	}
	return out
}

// BuildView reconciles fetched with local state and classifies the result.
// The summary covers all events; query only filters the list.
func (r *Reconciler) BuildView(
	ctx context.Context,
	fetched []domain.Event,
	now time.Time,
	query string,
) (*domain.EventView, error) {
	events, err := r.Reconcile(ctx, fetched)
	if err != nil {
		return nil, err
	}
	classified, err := r.classify(ctx, events, now)
	if err != nil {
		return nil, err
	}
	return &domain.EventView{
		Events:      r.Search(classified, query),
		Summary:     r.Summarize(classified, now),
		Query:       strings.TrimSpace(query),
		GeneratedAt: now,
	}, nil
}

// MarkComplete sets or clears the completed mark. It reports whether the
// set changed.
func (r *Reconciler) MarkComplete(ctx context.Context, key string, completed bool) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys, err := r.completedKeys(ctx)
	if err != nil {
		return false, err
	}
	if keys[key] == completed {
		return false, nil
	}
	if err := r.store.SetCompleted(ctx, key, completed); err != nil {
		return false, fmt.Errorf("set completed: %w", err)
	}
	return true, nil
}

// Delete tombstones key. A custom event with that key is removed as well.
// Returns domain.ErrNotFound if no known event has the key.
func (r *Reconciler) Delete(ctx context.Context, key string) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	deleted, err := r.tombstoneKeys(ctx)
	if err != nil {
		return false, err
	}
	if deleted[key] {
		return false, nil
	}

	target, err := r.find(ctx, key)
	if err != nil {
		return false, err
	}

	if target.IsCustom() {
		if err := r.store.RemoveCustom(ctx, target.ID); err != nil {
			return false, fmt.Errorf("remove custom event: %w", err)
		}
	}

	tomb := &domain.Tombstone{
		Key:       key,
		Name:      target.Name,
		Origin:    target.Origin,
		Reason:    "deleted by user",
		DeletedAt: r.now(),
	}
	if err := r.store.AddTombstone(ctx, tomb); err != nil {
		return false, fmt.Errorf("add tombstone: %w", err)
	}
	return true, nil
}

// find locates an event by key among custom events and the fetched snapshot.
func (r *Reconciler) find(ctx context.Context, key string) (*domain.Event, error) {
	custom, err := r.store.ListCustom(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custom events: %w", err)
	}
	fetched, err := r.store.ListFetched(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fetched events: %w", err)
	}
	for _, group := range [][]domain.Event{custom, fetched} {
		for i := range group {
			if r.Key(&group[i]) == key {
				return &group[i], nil
			}
		}
	}
	return nil, fmt.Errorf("event %q: %w", key, domain.ErrNotFound)
}

// Restore removes the tombstone for key. It reports whether one existed.
func (r *Reconciler) Restore(ctx context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted, err := r.tombstoneKeys(ctx)
	if err != nil {
		return false, err
	}
	if !deleted[key] {
		return false, nil
	}
	if err := r.store.RemoveTombstone(ctx, key); err != nil {
		return false, fmt.Errorf("remove tombstone: %w", err)
	}
	return true, nil
}

// AddCustom validates and stores a user-created event.
func (r *Reconciler) AddCustom(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.Name = strings.TrimSpace(event.Name)
	if err := event.Validate(); err != nil {
		return domain.Event{}, err
	}

	event.ID = newCustomEventID()
	event.Origin = domain.OriginCustom
	event.ExternalID = ""
	event.CreatedAt = r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.SaveCustom(ctx, &event); err != nil {
		return domain.Event{}, fmt.Errorf("save custom event: %w", err)
	}
	return event, nil
}

// Tombstones lists deleted events, oldest first.
func (r *Reconciler) Tombstones(ctx context.Context) ([]domain.Tombstone, error) {
	return r.store.ListTombstones(ctx)
}

// Snapshot returns the cached fetched events.
func (r *Reconciler) Snapshot(ctx context.Context) ([]domain.Event, error) {
	return r.store.ListFetched(ctx)
}

// SaveSnapshot replaces the cached fetched events.
func (r *Reconciler) SaveSnapshot(ctx context.Context, events []domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.ReplaceFetched(ctx, events)
}

// ClearSnapshot empties the cached fetched events.
func (r *Reconciler) ClearSnapshot(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.ClearFetched(ctx)
}

func (r *Reconciler) tombstoneKeys(ctx context.Context) (map[string]bool, error) {
	tombs, err := r.store.ListTombstones(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tombstones: %w", err)
	}
	keys := make(map[string]bool, len(tombs))
	for i := range tombs {
		keys[tombs[i].Key] = true
	}
	return keys, nil
}

func (r *Reconciler) completedKeys(ctx context.Context) (map[string]bool, error) {
	completed, err := r.store.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list completed: %w", err)
	}
	keys := make(map[string]bool, len(completed))
	for _, k := range completed {
		keys[k] = true
	}
	return keys, nil
}
