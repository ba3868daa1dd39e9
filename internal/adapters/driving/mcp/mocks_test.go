package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

// mockDashboard is a mock implementation of driving.Dashboard.
type mockDashboard struct {
	report *domain.CycleReport
	added  domain.Event
	err    error

	lastKey       string
	lastCompleted bool
	lastAdded     domain.Event
	calls         []string
}

func (m *mockDashboard) Start(_ context.Context) error {
	m.calls = append(m.calls, "start")
	return m.err
}

func (m *mockDashboard) Login(_ context.Context) error {
	m.calls = append(m.calls, "login")
	return m.err
}

func (m *mockDashboard) Logout(_ context.Context) error {
	m.calls = append(m.calls, "logout")
	return m.err
}

func (m *mockDashboard) Refresh(_ context.Context) (*domain.CycleReport, error) {
	m.calls = append(m.calls, "refresh")
	return m.report, m.err
}

func (m *mockDashboard) MarkComplete(_ context.Context, key string, completed bool) error {
	m.calls = append(m.calls, "mark")
	m.lastKey = key
	m.lastCompleted = completed
	return m.err
}

func (m *mockDashboard) Delete(_ context.Context, key string) error {
	m.calls = append(m.calls, "delete")
	m.lastKey = key
	return m.err
}

func (m *mockDashboard) Restore(_ context.Context, key string) error {
	m.calls = append(m.calls, "restore")
	m.lastKey = key
	return m.err
}

func (m *mockDashboard) AddCustom(_ context.Context, event domain.Event) (domain.Event, error) {
	m.calls = append(m.calls, "add")
	m.lastAdded = event
	if m.err != nil {
		return domain.Event{}, m.err
	}
	return m.added, nil
}

func (m *mockDashboard) Search(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDashboard) View(_ context.Context, _ time.Time) (*domain.EventView, error) {
	return nil, m.err
}

// mockEventService is a mock implementation of driving.EventService.
// Only the read paths used by the server are meaningful.
type mockEventService struct {
	driving.EventService

	snapshot    []domain.Event
	view        *domain.EventView
	tombstones  []domain.Tombstone
	snapshotErr error
	viewErr     error
	tombErr     error

	lastQuery   string
	lastFetched []domain.Event
}

func (m *mockEventService) Snapshot(_ context.Context) ([]domain.Event, error) {
	return m.snapshot, m.snapshotErr
}

func (m *mockEventService) BuildView(
	_ context.Context,
	fetched []domain.Event,
	now time.Time,
	query string,
) (*domain.EventView, error) {
	m.lastFetched = fetched
	m.lastQuery = query
	if m.viewErr != nil {
		return nil, m.viewErr
	}
	if m.view != nil {
		return m.view, nil
	}
	return &domain.EventView{GeneratedAt: now, Query: query}, nil
}

func (m *mockEventService) Key(event *domain.Event) string {
	return event.ID
}

func (m *mockEventService) Tombstones(_ context.Context) ([]domain.Tombstone, error) {
	return m.tombstones, m.tombErr
}

// mockSessions is a mock implementation of driving.SessionService.
type mockSessions struct {
	driving.SessionService
	loggedIn bool
}

func (m *mockSessions) IsLoggedIn() bool {
	return m.loggedIn
}

func sampleView() *domain.EventView {
	events := []domain.ClassifiedEvent{
		{
			Event:  domain.Event{ID: "c1", Name: "Planning", Date: "2026-03-12", Time: "10:00", Origin: domain.OriginCustom},
			Key:    "c1",
			Status: domain.StatusUpcoming,
		},
		{
			Event:  domain.Event{ID: "f1", Name: "Launch Webinar", Type: "Webinar", Date: "2026-03-01", Venue: "Zoom", Attendees: "40", Origin: domain.OriginFetched},
			Key:    "f1",
			Status: domain.StatusMissed,
		},
		{
			Event:  domain.Event{ID: "f2", Name: "Board Review", Date: "2026-02-20", Origin: domain.OriginFetched},
			Key:    "f2",
			Status: domain.StatusCompleted,
		},
	}
	return &domain.EventView{
		Events: events,
		Summary: domain.Summary{
			Total: 3, ThisWeek: 1, Completed: 1, Missed: 1, Upcoming: 1, Attendees: 40,
		},
	}
}

func newTestServer(dash *mockDashboard, events *mockEventService) *Server {
	s, err := NewServer(&Ports{Dashboard: dash, Events: events})
	if err != nil {
		panic(err)
	}
	s.now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return s
}
