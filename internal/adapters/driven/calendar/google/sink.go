package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.CalendarSink = (*Sink)(nil)

// PrimaryCalendar is the calendar ID of the signed-in user's main calendar.
const PrimaryCalendar = "primary"

// DefaultEventDuration is used when an event only has a start time.
const DefaultEventDuration = time.Hour

// Sink inserts events through the Calendar v3 API.
type Sink struct {
	svc        *calendar.Service
	calendarID string
	loc        *time.Location
}

// NewSink creates a sink authenticated by tokens. Extra client options are
// appended after the token source.
func NewSink(ctx context.Context, tokens driven.TokenProvider, opts ...option.ClientOption) (*Sink, error) {
	opts = append([]option.ClientOption{option.WithTokenSource(NewTokenSource(ctx, tokens))}, opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Sink{svc: svc, calendarID: PrimaryCalendar, loc: time.Local}, nil
}

// AddEvent inserts one event into the primary calendar.
func (s *Sink) AddEvent(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return fmt.Errorf("add to calendar: %w", domain.ErrInvalidInput)
	}
	gev, err := toCalendarEvent(event, s.loc)
	if err != nil {
		return err
	}
	_, err = s.svc.Events.Insert(s.calendarID, gev).Context(ctx).Do()
	return wrapError(err)
}

// toCalendarEvent converts an extracted event. Events with a parseable date
// but no parseable time become all-day events. Events without a date cannot
// be placed and are rejected.
func toCalendarEvent(e *domain.Event, loc *time.Location) (*calendar.Event, error) {
	day, ok := domain.ParseDate(e.Date, loc)
	if !ok {
		return nil, fmt.Errorf("event %q has no usable date: %w", e.Name, domain.ErrInvalidInput)
	}

	gev := &calendar.Event{
		Summary:     e.Name,
		Location:    e.Venue,
		Description: describe(e),
	}

	if offset, ok := domain.ParseClock(e.Time); ok {
		start := day.Add(offset)
		gev.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)}
		gev.End = &calendar.EventDateTime{DateTime: start.Add(DefaultEventDuration).Format(time.RFC3339)}
	} else {
		gev.Start = &calendar.EventDateTime{Date: day.Format(time.DateOnly)}
		gev.End = &calendar.EventDateTime{Date: day.AddDate(0, 0, 1).Format(time.DateOnly)}
	}
	return gev, nil
}

func describe(e *domain.Event) string {
	var lines []string
	if e.Type != "" {
		lines = append(lines, "Type: "+e.Type)
	}
	if e.Attendees != "" {
		lines = append(lines, "Attendees: "+e.Attendees)
	}
	lines = append(lines, "Added by proemail")
	return strings.Join(lines, "\n")
}
