package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	User string `json:"user"`
}

type messageWire struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
}

type processRequest struct {
	EmailID string `json:"emailId"`
}

type storeTokensRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// looseString accepts a JSON string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

// eventWire is the event object exchanged with /process_emails and
// /add_to_calendar.
type eventWire struct {
	EventName string      `json:"event_name"`
	Type      looseString `json:"type,omitempty"`
	Date      looseString `json:"date,omitempty"`
	Time      looseString `json:"time,omitempty"`
	Venue     looseString `json:"venue,omitempty"`
	Attendees looseString `json:"attendees,omitempty"`
}

func (w eventWire) toDomain() domain.Event {
	return domain.Event{
		Name:      strings.TrimSpace(w.EventName),
		Type:      strings.TrimSpace(string(w.Type)),
		Date:      strings.TrimSpace(string(w.Date)),
		Time:      strings.TrimSpace(string(w.Time)),
		Venue:     strings.TrimSpace(string(w.Venue)),
		Attendees: strings.TrimSpace(string(w.Attendees)),
	}
}

// calendarWire is what /add_to_calendar receives. Attendees go out as a
// number when the stored value is numeric.
type calendarWire struct {
	EventName string `json:"event_name"`
	Type      string `json:"type,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Venue     string `json:"venue,omitempty"`
	Attendees any    `json:"attendees,omitempty"`
}

func toCalendarWire(e *domain.Event) calendarWire {
	w := calendarWire{
		EventName: e.Name,
		Type:      e.Type,
		Date:      e.Date,
		Time:      e.Time,
		Venue:     e.Venue,
	}
	if a := strings.TrimSpace(e.Attendees); a != "" {
		if n, err := strconv.Atoi(a); err == nil {
			w.Attendees = n
		} else {
			w.Attendees = a
		}
	}
	return w
}
