package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

// eventStore implements driven.EventStore.
type eventStore struct {
	store *Store
}

var _ driven.EventStore = (*eventStore)(nil)

const eventColumns = "id, name, type, date, time, venue, attendees, external_id, created_at"

// SaveCustom creates or updates a custom event by ID.
func (s *eventStore) SaveCustom(ctx context.Context, event *domain.Event) error {
	if event == nil || event.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO custom_events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			date = excluded.date,
			time = excluded.time,
			venue = excluded.venue,
			attendees = excluded.attendees,
			external_id = excluded.external_id,
			created_at = excluded.created_at
	`, eventArgs(event)...)
	if err != nil {
		return fmt.Errorf("saving custom event: %w", err)
	}
	return nil
}

// RemoveCustom deletes a custom event. Unknown IDs are ignored.
func (s *eventStore) RemoveCustom(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM custom_events WHERE id = ?", id); err != nil {
		return fmt.Errorf("removing custom event: %w", err)
	}
	return nil
}

// ListCustom returns custom events in creation order.
func (s *eventStore) ListCustom(ctx context.Context) ([]domain.Event, error) {
	return s.queryEvents(ctx, "SELECT "+eventColumns+" FROM custom_events ORDER BY rowid", domain.OriginCustom)
}

// SetCompleted marks or unmarks a key as completed.
func (s *eventStore) SetCompleted(ctx context.Context, key string, completed bool) error {
	var err error
	if completed {
		_, err = s.store.db.ExecContext(ctx, `
			INSERT INTO completed_events (key, completed_at) VALUES (?, ?)
			ON CONFLICT(key) DO NOTHING
		`, key, formatTime(time.Now()))
	} else {
		_, err = s.store.db.ExecContext(ctx, "DELETE FROM completed_events WHERE key = ?", key)
	}
	if err != nil {
		return fmt.Errorf("setting completed: %w", err)
	}
	return nil
}

// ListCompleted returns completed keys sorted ascending.
func (s *eventStore) ListCompleted(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT key FROM completed_events ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("querying completed events: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning completed key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed events: %w", err)
	}
	return keys, nil
}

// AddTombstone records a deletion. An existing tombstone for the same key is
// updated in place and keeps its position.
func (s *eventStore) AddTombstone(ctx context.Context, tombstone *domain.Tombstone) error {
	if tombstone == nil || tombstone.Key == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tombstones (key, name, origin, reason, deleted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			origin = excluded.origin,
			reason = excluded.reason,
			deleted_at = excluded.deleted_at
	`, tombstone.Key, tombstone.Name, string(tombstone.Origin), tombstone.Reason,
		formatTime(tombstone.DeletedAt))
	if err != nil {
		return fmt.Errorf("adding tombstone: %w", err)
	}
	return nil
}

// RemoveTombstone deletes a tombstone. Unknown keys are ignored.
func (s *eventStore) RemoveTombstone(ctx context.Context, key string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM tombstones WHERE key = ?", key); err != nil {
		return fmt.Errorf("removing tombstone: %w", err)
	}
	return nil
}

// ListTombstones returns tombstones in the order they were first recorded.
func (s *eventStore) ListTombstones(ctx context.Context) ([]domain.Tombstone, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT key, name, origin, reason, deleted_at FROM tombstones ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tombstones: %w", err)
	}
	defer rows.Close()

	tombstones := []domain.Tombstone{}
	for rows.Next() {
		var t domain.Tombstone
		var origin string
		var deletedAt sql.NullString
		if err := rows.Scan(&t.Key, &t.Name, &origin, &t.Reason, &deletedAt); err != nil {
			return nil, fmt.Errorf("scanning tombstone: %w", err)
		}
		t.Origin = domain.EventOrigin(origin)
		t.DeletedAt = parseNullableTime(deletedAt)
		tombstones = append(tombstones, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tombstones: %w", err)
	}
	return tombstones, nil
}

// ReplaceFetched atomically swaps the fetched snapshot.
func (s *eventStore) ReplaceFetched(ctx context.Context, events []domain.Event) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fetched_events"); err != nil {
		return fmt.Errorf("clearing fetched events: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fetched_events (position, `+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range events {
		args := append([]any{i}, eventArgs(&events[i])...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting fetched event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing fetched events: %w", err)
	}
	return nil
}

// ListFetched returns the fetched snapshot in cycle order.
func (s *eventStore) ListFetched(ctx context.Context) ([]domain.Event, error) {
	return s.queryEvents(ctx, "SELECT "+eventColumns+" FROM fetched_events ORDER BY position", domain.OriginFetched)
}

// ClearFetched drops the fetched snapshot.
func (s *eventStore) ClearFetched(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM fetched_events"); err != nil {
		return fmt.Errorf("clearing fetched events: %w", err)
	}
	return nil
}

func (s *eventStore) queryEvents(ctx context.Context, query string, origin domain.EventOrigin) ([]domain.Event, error) {
	rows, err := s.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		var createdAt sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.Date, &e.Time, &e.Venue,
			&e.Attendees, &e.ExternalID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Origin = origin
		e.CreatedAt = parseNullableTime(createdAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

func eventArgs(e *domain.Event) []any {
	return []any{
		e.ID, e.Name, e.Type, e.Date, e.Time, e.Venue,
		e.Attendees, e.ExternalID, formatNullableTime(e.CreatedAt),
	}
}
