package domain

import (
	"strings"
	"time"
)

// EventOrigin records where an event came from.
type EventOrigin string

const (
	// OriginFetched marks events extracted from mail by the backend.
	// Fetched events are recreated on every fetch cycle.
	OriginFetched EventOrigin = "fetched"

	// OriginCustom marks events created by the user.
	// Custom events persist until explicitly deleted.
	OriginCustom EventOrigin = "custom"
)

// IsValid returns true if the origin is recognised.
func (o EventOrigin) IsValid() bool {
	return o == OriginFetched || o == OriginCustom
}

// UntitledEventName names fetched events the backend returned without a name.
const UntitledEventName = "No Title"

// Event is a calendar-like event shown to the user.
type Event struct {
	// ID is a stable identifier. Fetched events derive it from the source
	// message and event fields so repeated extraction yields the same ID.
	ID string `json:"id"`

	// Name is the display title.
	Name string `json:"name"`

	// Type is a free-form category such as "Meeting" or "Webinar".
	Type string `json:"type,omitempty"`

	// Date is the event date as reported by the source (usually YYYY-MM-DD).
	Date string `json:"date,omitempty"`

	// Time is the event time as reported by the source (usually HH:MM).
	Time string `json:"time,omitempty"`

	// Venue is the location.
	Venue string `json:"venue,omitempty"`

	// Attendees is the reported attendee count, kept as text because
	// the backend does not guarantee a number.
	Attendees string `json:"attendees,omitempty"`

	// Origin is fetched or custom.
	Origin EventOrigin `json:"origin"`

	// ExternalID is the source message ID for fetched events.
	ExternalID string `json:"external_id,omitempty"`

	// CreatedAt is when the event entered the local store.
	CreatedAt time.Time `json:"created_at"`
}

// KeyMode selects which field identifies an event for reconciliation,
// completion marks and deletions.
type KeyMode string

const (
	// KeyByID uses Event.ID.
	KeyByID KeyMode = "id"

	// KeyByName uses Event.Name. Two distinct events with the same title
	// collide under this mode; it exists for compatibility with state
	// written by older clients that keyed everything by name.
	KeyByName KeyMode = "name"
)

// IsValid returns true if the key mode is recognised.
func (m KeyMode) IsValid() bool {
	return m == KeyByID || m == KeyByName
}

// String returns the string representation.
func (m KeyMode) String() string {
	return string(m)
}

// Key returns the identity of the event under the given mode.
// An unknown mode falls back to KeyByID.
func (e *Event) Key(mode KeyMode) string {
	if mode == KeyByName {
		return e.Name
	}
	return e.ID
}

// IsCustom returns true for user-created events.
func (e *Event) IsCustom() bool {
	return e.Origin == OriginCustom
}

// Validate checks the fields a user must supply for a custom event.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Matches reports whether the event matches a case-insensitive search text.
// The name, venue and type are searched. Empty text matches everything.
func (e *Event) Matches(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return true
	}
	for _, field := range []string{e.Name, e.Venue, e.Type} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}
