package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

var (
	_ driven.Backend          = (*mockBackend)(nil)
	_ driven.IdentityProvider = (*mockIdentity)(nil)
	_ driven.Presenter        = (*mockPresenter)(nil)
	_ driven.CalendarSink     = (*mockCalendar)(nil)
)

// --- Backend ---

type listResult struct {
	refs []domain.MessageRef
	err  error
}

// mockBackend implements driven.Backend. ListUnread walks through
// listResults and repeats the last entry.
type mockBackend struct {
	mu sync.Mutex

	email     string
	verifyErr error

	listResults []listResult
	listCalls   int

	events       map[string][]domain.Event
	extractErr   map[string]error
	extractCalls []string
	onExtract    func(messageID string)

	storedRefresh string
	storeErr      error
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		email:      "user@example.com",
		events:     make(map[string][]domain.Event),
		extractErr: make(map[string]error),
	}
}

func (m *mockBackend) VerifyIdentity(_ context.Context, _ string) (string, error) {
	if m.verifyErr != nil {
		return "", m.verifyErr
	}
	return m.email, nil
}

func (m *mockBackend) ListUnread(_ context.Context) ([]domain.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if len(m.listResults) == 0 {
		return nil, nil
	}
	idx := m.listCalls - 1
	if idx >= len(m.listResults) {
		idx = len(m.listResults) - 1
	}
	r := m.listResults[idx]
	return r.refs, r.err
}

func (m *mockBackend) ExtractEvents(_ context.Context, messageID string) ([]domain.Event, error) {
	m.mu.Lock()
	m.extractCalls = append(m.extractCalls, messageID)
	hook := m.onExtract
	err := m.extractErr[messageID]
	events := append([]domain.Event(nil), m.events[messageID]...)
	m.mu.Unlock()

	if hook != nil {
		hook(messageID)
	}
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (m *mockBackend) StoreRefreshToken(_ context.Context, refreshToken string) error {
	m.storedRefresh = refreshToken
	return m.storeErr
}

func (m *mockBackend) calls() (int, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls, append([]string(nil), m.extractCalls...)
}

// --- Identity provider ---

type mockIdentity struct {
	mu sync.Mutex

	grant   *domain.Grant
	authErr error

	refreshGrant *domain.Grant
	refreshErr   error
	refreshCalls int

	revoked   []string
	revokeErr error
}

func newMockIdentity() *mockIdentity {
	return &mockIdentity{
		grant: &domain.Grant{
			IDToken:      "id-token",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			Expiry:       time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC),
		},
		refreshGrant: &domain.Grant{
			AccessToken: "access-2",
			Expiry:      time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		},
	}
}

func (m *mockIdentity) Authenticate(_ context.Context) (*domain.Grant, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	g := *m.grant
	return &g, nil
}

func (m *mockIdentity) Refresh(_ context.Context, _ string) (*domain.Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	g := *m.refreshGrant
	return &g, nil
}

func (m *mockIdentity) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked = append(m.revoked, token)
	return m.revokeErr
}

func (m *mockIdentity) refreshCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshCalls
}

// --- Presenter ---

type mockPresenter struct {
	mu        sync.Mutex
	views     []domain.EventView
	warnings  []string
	loggedIn  []string
	loggedOut int
}

func (m *mockPresenter) Render(view domain.EventView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, view)
}

func (m *mockPresenter) Warn(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, message)
}

func (m *mockPresenter) ShowLoggedIn(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loggedIn = append(m.loggedIn, email)
}

func (m *mockPresenter) ShowLoggedOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loggedOut++
}

func (m *mockPresenter) lastView() *domain.EventView {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.views) == 0 {
		return nil
	}
	v := m.views[len(m.views)-1]
	return &v
}

// --- Calendar ---

type mockCalendar struct {
	added []string
	errs  map[string]error
}

func (m *mockCalendar) AddEvent(_ context.Context, event *domain.Event) error {
	if err := m.errs[event.Name]; err != nil {
		return err
	}
	m.added = append(m.added, event.Name)
	return nil
}

// --- Helpers ---

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func refs(ids ...string) []domain.MessageRef {
	out := make([]domain.MessageRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.MessageRef{ID: id, Subject: "subject " + id})
	}
	return out
}
