package domain

import "time"

// Tombstone records that the user deleted an event.
// Reconciliation suppresses any event whose key has a tombstone, so a
// fetched event stays hidden even when the backend extracts it again.
type Tombstone struct {
	// Key is the event key under the active KeyMode.
	Key string `json:"key"`

	// Name is the event title at deletion time, kept for display.
	Name string `json:"name,omitempty"`

	// Origin is the origin of the deleted event.
	Origin EventOrigin `json:"origin,omitempty"`

	// Reason is an optional explanation.
	Reason string `json:"reason,omitempty"`

	// DeletedAt is when the event was deleted.
	DeletedAt time.Time `json:"deleted_at"`
}
