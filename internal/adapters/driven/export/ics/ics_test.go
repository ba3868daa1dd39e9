package ics

import (
	"bytes"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

func exportView(t *testing.T, view *domain.EventView) (*ical.Calendar, string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewExporter().Export(&buf, view))
	cal, err := ical.ParseCalendar(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return cal, buf.String()
}

func TestExporter_Extension(t *testing.T) {
	assert.Equal(t, "ics", NewExporter().Extension())
}

func TestExporter_NilView(t *testing.T) {
	err := NewExporter().Export(&bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExporter_Export(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	view := &domain.EventView{
		GeneratedAt: now,
		Events: []domain.ClassifiedEvent{
			{
				Key:    "evt-1",
				Status: domain.StatusUpcoming,
				Event: domain.Event{
					ID: "evt-1", Name: "Design review", Type: "Meeting",
					Date: "2026-03-12", Time: "14:30", Venue: "Room 4",
					Attendees: "6", Origin: domain.OriginFetched,
				},
			},
			{
				Key:    "evt-2",
				Status: domain.StatusCompleted,
				Event: domain.Event{
					ID: "evt-2", Name: "Offsite", Date: "2026-03-01",
					Origin: domain.OriginCustom,
				},
			},
			{
				Key:    "evt-3",
				Status: domain.StatusUpcoming,
				Event:  domain.Event{ID: "evt-3", Name: "Someday", Date: "soon"},
			},
		},
	}

	cal, raw := exportView(t, view)

	events := cal.Events()
	require.Len(t, events, 2, "undated events are skipped")

	timed := events[0]
	assert.Equal(t, "evt-1@proemail", timed.Id())
	assert.Equal(t, "Design review", timed.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "Room 4", timed.GetProperty(ical.ComponentPropertyLocation).Value)
	assert.Equal(t, "Meeting", timed.GetProperty(ical.ComponentPropertyCategories).Value)
	assert.Equal(t, "20260312T143000Z", timed.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20260312T153000Z", timed.GetProperty(ical.ComponentPropertyDtEnd).Value)
	assert.Nil(t, timed.GetProperty(PropertyStatus))

	allDay := events[1]
	assert.Equal(t, "evt-2@proemail", allDay.Id())
	assert.Equal(t, "20260301", allDay.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20260302", allDay.GetProperty(ical.ComponentPropertyDtEnd).Value)
	require.NotNil(t, allDay.GetProperty(PropertyStatus))
	assert.Equal(t, "completed", allDay.GetProperty(PropertyStatus).Value)

	assert.Contains(t, raw, "METHOD:PUBLISH")
	assert.NotContains(t, raw, "STATUS:CANCELLED")
}

func TestExporter_EmptyView(t *testing.T) {
	cal, raw := exportView(t, &domain.EventView{GeneratedAt: time.Now()})

	assert.Empty(t, cal.Events())
	assert.Contains(t, raw, "BEGIN:VCALENDAR")
	assert.Contains(t, raw, "END:VCALENDAR")
}

func TestUID_ReplacesWhitespace(t *testing.T) {
	ce := &domain.ClassifiedEvent{Key: "Team lunch", Event: domain.Event{ID: "x"}}
	assert.Equal(t, "Team-lunch@proemail", uid(ce))

	ce = &domain.ClassifiedEvent{Event: domain.Event{ID: "abc"}}
	assert.Equal(t, "abc@proemail", uid(ce))
}
