package domain

import (
	"strconv"
	"strings"
	"time"
)

// Status is the mutually exclusive classification of a rendered event.
type Status string

const (
	// StatusCompleted means the user marked the event done.
	StatusCompleted Status = "completed"
	// StatusMissed means the event is in the past and not marked done.
	StatusMissed Status = "missed"
	// StatusUpcoming means everything else, including events whose
	// date or time cannot be parsed.
	StatusUpcoming Status = "upcoming"
)

// IsValid returns true if the status is recognised.
func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusMissed, StatusUpcoming:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// AllStatuses returns every status in display order.
func AllStatuses() []Status {
	return []Status{StatusUpcoming, StatusMissed, StatusCompleted}
}

// Classify decides the status of one event.
// Completion wins regardless of date. Malformed dates never count as missed.
func Classify(e *Event, completed bool, now time.Time) Status {
	if completed {
		return StatusCompleted
	}
	when, ok := ParseWhen(e.Date, e.Time, now.Location())
	if ok && when.Before(now) {
		return StatusMissed
	}
	return StatusUpcoming
}

// ClassifiedEvent is an event together with its key and status.
type ClassifiedEvent struct {
	Event  Event
	Key    string
	Status Status
}

// Classification partitions events by status, preserving input order
// within each partition.
type Classification struct {
	Completed []ClassifiedEvent
	Missed    []ClassifiedEvent
	Upcoming  []ClassifiedEvent
}

// All returns every classified event in the partition order
// upcoming, missed, completed.
func (c *Classification) All() []ClassifiedEvent {
	all := make([]ClassifiedEvent, 0, len(c.Completed)+len(c.Missed)+len(c.Upcoming))
	all = append(all, c.Upcoming...)
	all = append(all, c.Missed...)
	all = append(all, c.Completed...)
	return all
}

// Len returns the total number of classified events.
func (c *Classification) Len() int {
	return len(c.Completed) + len(c.Missed) + len(c.Upcoming)
}

// Summary holds the dashboard counters.
type Summary struct {
	Total     int `json:"total"`
	ThisWeek  int `json:"this_week"`
	Completed int `json:"completed"`
	Missed    int `json:"missed"`
	Upcoming  int `json:"upcoming"`
	Attendees int `json:"attendees"`
}

// Summarize computes counters over classified events.
// ThisWeek counts events whose date falls between Sunday and Saturday of
// the week containing now.
func Summarize(events []ClassifiedEvent, now time.Time) Summary {
	start, end := WeekBounds(now)
	var s Summary
	for i := range events {
		ev := &events[i]
		s.Total++
		switch ev.Status {
		case StatusCompleted:
			s.Completed++
		case StatusMissed:
			s.Missed++
		case StatusUpcoming:
			s.Upcoming++
		}
		if day, ok := ParseDate(ev.Event.Date, now.Location()); ok {
			if !day.Before(start) && !day.After(end) {
				s.ThisWeek++
			}
		}
		if n, err := strconv.Atoi(strings.TrimSpace(ev.Event.Attendees)); err == nil && n > 0 {
			s.Attendees += n
		}
	}
	return s
}

// EventView is what the presentation layer renders.
type EventView struct {
	// Events are in reconciled order: custom first, then fetched.
	Events []ClassifiedEvent

	// Summary is computed over all events, before any search filter.
	Summary Summary

	// Query is the active search text, if any.
	Query string

	// GeneratedAt is the instant used for classification.
	GeneratedAt time.Time
}

// Filter returns the events with the given status.
func (v *EventView) Filter(status Status) []ClassifiedEvent {
	out := make([]ClassifiedEvent, 0)
	for _, ev := range v.Events {
		if ev.Status == status {
			out = append(out, ev)
		}
	}
	return out
}
