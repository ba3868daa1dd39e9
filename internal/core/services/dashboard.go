package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
	"github.com/custodia-labs/proemail-cli/internal/logger"
)

// Ensure Dashboard implements the interface.
var _ driving.Dashboard = (*Dashboard)(nil)

// Dashboard wires session, refresh, fetch and reconciliation together
// behind the presentation boundary.
type Dashboard struct {
	sessions  driving.SessionService
	refresher driving.TokenRefresher
	fetcher   driving.Fetcher
	events    driving.EventService
	presenter driven.Presenter
	now       func() time.Time

	// cycleMu allows one fetch cycle at a time.
	cycleMu sync.Mutex

	mu    sync.RWMutex
	query string
}

// NewDashboard creates a dashboard.
func NewDashboard(
	sessions driving.SessionService,
	refresher driving.TokenRefresher,
	fetcher driving.Fetcher,
	events driving.EventService,
	presenter driven.Presenter,
) *Dashboard {
	return &Dashboard{
		sessions:  sessions,
		refresher: refresher,
		fetcher:   fetcher,
		events:    events,
		presenter: presenter,
		now:       time.Now,
	}
}

// Start restores a fresh cached session and runs the first cycle.
// Without one it shows the logged-out state.
func (d *Dashboard) Start(ctx context.Context) error {
	session, err := d.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		d.presenter.ShowLoggedOut()
		return nil
	}

	d.presenter.ShowLoggedIn(session.UserEmail)
	d.startRefresher(ctx)
	_, err = d.Refresh(ctx)
	return err
}

// Login runs the interactive login and the first cycle.
func (d *Dashboard) Login(ctx context.Context) error {
	session, err := d.sessions.Login(ctx)
	if err != nil {
		d.presenter.Warn("Login failed. Please try again.")
		return err
	}

	d.presenter.ShowLoggedIn(session.UserEmail)
	d.startRefresher(ctx)
	_, err = d.Refresh(ctx)
	return err
}

func (d *Dashboard) startRefresher(ctx context.Context) {
	if err := d.refresher.Start(ctx); err != nil {
		logger.Warn("Token refresher not started: %v", err)
	}
}

// Logout stops the refresher, signs out and shows the logged-out state.
func (d *Dashboard) Logout(ctx context.Context) error {
	d.refresher.Stop()
	err := d.sessions.Logout(ctx)
	d.presenter.ShowLoggedOut()
	return err
}

// Refresh runs one fetch cycle, caches its events and re-renders.
//
// An expired token stops the refresher, clears the session and shows the
// logged-out state. Results of a cycle that outlived its session are
// discarded.
func (d *Dashboard) Refresh(ctx context.Context) (*domain.CycleReport, error) {
	if !d.sessions.IsLoggedIn() {
		return nil, domain.ErrAuthRequired
	}

	d.cycleMu.Lock()
	defer d.cycleMu.Unlock()

	generation := d.sessions.Generation()
	report, err := d.fetcher.RunCycle(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			d.expire(ctx)
		}
		return report, err
	}

	if d.sessions.Generation() != generation {
		logger.Info("Session changed during fetch cycle, discarding %d events", len(report.Events))
		return report, nil
	}

	// A failed listing keeps the previous snapshot on screen.
	if report.Warning == "" {
		if err := d.events.SaveSnapshot(ctx, report.Events); err != nil {
			return report, fmt.Errorf("save snapshot: %w", err)
		}
	}

	return report, d.render(ctx)
}

func (d *Dashboard) expire(ctx context.Context) {
	logger.Info("Delegated token rejected, signing out")
	d.refresher.Stop()
	if err := d.sessions.Invalidate(ctx); err != nil {
		logger.Error("invalidate session: %v", err)
	}
	d.presenter.ShowLoggedOut()
}

// MarkComplete sets or clears the completed mark for key and re-renders.
func (d *Dashboard) MarkComplete(ctx context.Context, key string, completed bool) error {
	if _, err := d.events.MarkComplete(ctx, key, completed); err != nil {
		return err
	}
	return d.render(ctx)
}

// Delete hides the event with key and re-renders.
func (d *Dashboard) Delete(ctx context.Context, key string) error {
	if _, err := d.events.Delete(ctx, key); err != nil {
		return err
	}
	return d.render(ctx)
}

// Restore un-hides the event with key and re-renders.
func (d *Dashboard) Restore(ctx context.Context, key string) error {
	if _, err := d.events.Restore(ctx, key); err != nil {
		return err
	}
	return d.render(ctx)
}

// AddCustom creates a user event and re-renders.
func (d *Dashboard) AddCustom(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := d.events.AddCustom(ctx, event)
	if err != nil {
		return domain.Event{}, err
	}
	return created, d.render(ctx)
}

// Search sets the active search text and re-renders.
func (d *Dashboard) Search(ctx context.Context, text string) error {
	d.mu.Lock()
	d.query = text
	d.mu.Unlock()
	return d.render(ctx)
}

// View builds the current view from the cached snapshot.
func (d *Dashboard) View(ctx context.Context, now time.Time) (*domain.EventView, error) {
	snapshot, err := d.events.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	d.mu.RLock()
	query := d.query
	d.mu.RUnlock()

	return d.events.BuildView(ctx, snapshot, now, query)
}

func (d *Dashboard) render(ctx context.Context) error {
	view, err := d.View(ctx, d.now())
	if err != nil {
		return err
	}
	d.presenter.Render(*view)
	return nil
}
