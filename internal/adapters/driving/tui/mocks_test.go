package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

type mockDashboard struct {
	mu       sync.Mutex
	started  int
	startErr error
}

func (m *mockDashboard) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	return m.startErr
}

func (m *mockDashboard) Login(_ context.Context) error { return nil }

func (m *mockDashboard) Logout(_ context.Context) error { return nil }

func (m *mockDashboard) Refresh(_ context.Context) (*domain.CycleReport, error) {
	return &domain.CycleReport{}, nil
}

func (m *mockDashboard) MarkComplete(_ context.Context, _ string, _ bool) error { return nil }

func (m *mockDashboard) Delete(_ context.Context, _ string) error { return nil }

func (m *mockDashboard) Restore(_ context.Context, _ string) error { return nil }

func (m *mockDashboard) AddCustom(_ context.Context, e domain.Event) (domain.Event, error) {
	return e, nil
}

func (m *mockDashboard) Search(_ context.Context, _ string) error { return nil }

func (m *mockDashboard) View(_ context.Context, _ time.Time) (*domain.EventView, error) {
	return &domain.EventView{}, nil
}

type mockSessions struct {
	driving.SessionService
}

// recordingSender captures messages a presenter sends.
type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}
