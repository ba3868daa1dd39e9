package domain

import (
	"strings"
	"time"
)

// dateLayouts are the date formats the extraction backend has been seen to emit.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// timeLayouts are accepted after upper-casing the input.
var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// ParseDate parses an event date in loc. It returns false for empty or
// unrecognised input.
func ParseDate(date string, loc *time.Location) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, date, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseClock parses an event time of day and returns the offset from midnight.
func ParseClock(clock string) (time.Duration, bool) {
	clock = strings.ToUpper(strings.TrimSpace(clock))
	if clock == "" {
		return 0, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

// ParseWhen combines an event date and time into an instant in loc.
// Both parts must parse; otherwise it returns false.
func ParseWhen(date, clock string, loc *time.Location) (time.Time, bool) {
	day, ok := ParseDate(date, loc)
	if !ok {
		return time.Time{}, false
	}
	offset, ok := ParseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return day.Add(offset), true
}

// WeekBounds returns the Sunday 00:00 that starts the week containing now
// and the Saturday 00:00 that ends it, both in now's location.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return start, start.AddDate(0, 0, 6)
}
