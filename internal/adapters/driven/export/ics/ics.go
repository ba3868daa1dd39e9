// Package ics exports the event view as an iCalendar file.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driven.EventExporter = (*Exporter)(nil)

const (
	// PropertyStatus marks events the user has completed.
	PropertyStatus = ical.ComponentProperty("X-PROEMAIL-STATUS")

	// EventDuration is the length given to events that only carry a start time.
	EventDuration = time.Hour

	uidDomain = "proemail"
)

// Exporter writes views as a single VCALENDAR.
type Exporter struct{}

// NewExporter creates an ICS exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Extension returns "ics".
func (e *Exporter) Extension() string {
	return "ics"
}

// Export writes one VEVENT per event in view. Events without a usable date
// are skipped since a VEVENT needs a start.
func (e *Exporter) Export(w io.Writer, view *domain.EventView) error {
	if view == nil {
		return fmt.Errorf("nil view: %w", domain.ErrInvalidInput)
	}

	stamp := view.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	loc := stamp.Location()

	cal := ical.NewCalendarFor(uidDomain)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName("proemail events")

	skipped := 0
	for i := range view.Events {
		ce := &view.Events[i]
		if !addEvent(cal, ce, stamp, loc) {
			skipped++
		}
	}
	if skipped > 0 {
		logger.Debug("ICS export skipped %d undated event(s)", skipped)
	}

	return cal.SerializeTo(w)
}

func addEvent(cal *ical.Calendar, ce *domain.ClassifiedEvent, stamp time.Time, loc *time.Location) bool {
	ev := &ce.Event
	day, ok := domain.ParseDate(ev.Date, loc)
	if !ok {
		return false
	}

	vev := cal.AddEvent(uid(ce))
	vev.SetDtStampTime(stamp)
	if !ev.CreatedAt.IsZero() {
		vev.SetCreatedTime(ev.CreatedAt)
	}
	vev.SetSummary(ev.Name)
	if ev.Venue != "" {
		vev.SetLocation(ev.Venue)
	}
	if ev.Type != "" {
		vev.SetProperty(ical.ComponentPropertyCategories, ev.Type)
	}
	if desc := describe(ev); desc != "" {
		vev.SetDescription(desc)
	}

	if offset, ok := domain.ParseClock(ev.Time); ok {
		start := day.Add(offset)
		vev.SetStartAt(start)
		vev.SetEndAt(start.Add(EventDuration))
	} else {
		vev.SetAllDayStartAt(day)
		vev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}

	if ce.Status == domain.StatusCompleted {
		vev.SetProperty(PropertyStatus, string(domain.StatusCompleted))
	}
	return true
}

// uid is stable across exports so calendar apps update rather than duplicate.
func uid(ce *domain.ClassifiedEvent) string {
	key := ce.Key
	if key == "" {
		key = ce.Event.ID
	}
	key = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return '-'
		}
		return r
	}, key)
	return key + "@" + uidDomain
}

func describe(ev *domain.Event) string {
	var parts []string
	if ev.Attendees != "" {
		parts = append(parts, "Attendees: "+ev.Attendees)
	}
	if ev.Origin == domain.OriginCustom {
		parts = append(parts, "Added manually")
	}
	return strings.Join(parts, "\n")
}
