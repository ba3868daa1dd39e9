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

// Ensure SessionManager implements the interfaces.
var (
	_ driving.SessionService = (*SessionManager)(nil)
	_ driven.TokenProvider   = (*SessionManager)(nil)
)

// SessionOptions configures a SessionManager.
type SessionOptions struct {
	// FreshnessWindow bounds how long a persisted session may be reused.
	FreshnessWindow time.Duration

	// StoreRefreshToken hands refresh tokens to the backend after login.
	StoreRefreshToken bool
}

// SessionManager is the single owner of the signed-in session.
// Adapters read the delegated token through it as a driven.TokenProvider.
type SessionManager struct {
	store    driven.SessionStore
	identity driven.IdentityProvider
	backend  driven.Backend
	events   driven.EventStore
	opts     SessionOptions
	now      func() time.Time

	mu         sync.RWMutex
	session    *domain.Session
	generation uint64
}

// NewSessionManager creates a session manager.
// events may be nil; when set, logout also clears the fetched snapshot.
func NewSessionManager(
	store driven.SessionStore,
	identity driven.IdentityProvider,
	backend driven.Backend,
	events driven.EventStore,
	opts SessionOptions,
) *SessionManager {
	if opts.FreshnessWindow <= 0 {
		opts.FreshnessWindow = domain.DefaultFreshnessWindow
	}
	return &SessionManager{
		store:    store,
		identity: identity,
		backend:  backend,
		events:   events,
		opts:     opts,
		now:      time.Now,
	}
}

// Load restores the persisted session if it is fresh.
// A stale session is cleared from the store.
func (m *SessionManager) Load(ctx context.Context) (*domain.Session, error) {
	stored, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored == nil || !stored.IsAuthenticated() {
		return nil, nil
	}
	if !stored.IsFresh(m.now(), m.opts.FreshnessWindow) {
		logger.Info("Persisted session from %s is stale, discarding", stored.AcquiredAt.Format(time.RFC3339))
		if err := m.store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear stale session: %w", err)
		}
		return nil, nil
	}

	m.mu.Lock()
	m.session = stored
	m.generation++
	m.mu.Unlock()

	logger.Debug("Restored session for %s", stored.UserEmail)
	return copySession(stored), nil
}

// Login runs the interactive login, confirms the identity with the backend
// and persists the session. Nothing is persisted on failure.
func (m *SessionManager) Login(ctx context.Context) (*domain.Session, error) {
	logger.Section("Login")

	grant, err := m.identity.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	}
	if grant == nil || grant.IDToken == "" || grant.AccessToken == "" {
		return nil, fmt.Errorf("%w: provider returned an incomplete grant", domain.ErrLoginFailed)
	}

	email, err := m.backend.VerifyIdentity(ctx, grant.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: verify identity: %w", domain.ErrLoginFailed, err)
	}

	session := &domain.Session{
		IdentityToken:  grant.IDToken,
		DelegatedToken: grant.AccessToken,
		RefreshToken:   grant.RefreshToken,
		TokenExpiry:    grant.Expiry,
		UserEmail:      email,
		AcquiredAt:     m.now(),
	}
	if err := m.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: save session: %w", domain.ErrLoginFailed, err)
	}

	m.mu.Lock()
	m.session = session
	m.generation++
	m.mu.Unlock()

	logger.Info("Signed in as %s", email)

	// The backend call authenticates through this manager, so it must run
	// after the session is installed and without holding the lock.
	if m.opts.StoreRefreshToken && session.HasRefreshToken() {
		if err := m.backend.StoreRefreshToken(ctx, session.RefreshToken); err != nil {
			logger.Warn("Could not hand refresh token to backend: %v", err)
		}
	}

	return copySession(session), nil
}

// Logout revokes the delegated token and clears the session and the
// fetched snapshot. Custom events, completed marks and tombstones survive.
func (m *SessionManager) Logout(ctx context.Context) error {
	prev := m.clear()

	if prev != nil && prev.DelegatedToken != "" {
		if err := m.identity.Revoke(ctx, prev.DelegatedToken); err != nil {
			logger.Warn("Token revocation failed: %v", err)
		}
	}

	return m.purge(ctx)
}

// Invalidate clears the session without contacting the identity provider.
func (m *SessionManager) Invalidate(ctx context.Context) error {
	m.clear()
	return m.purge(ctx)
}

func (m *SessionManager) clear() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.session
	m.session = nil
	m.generation++
	return prev
}

func (m *SessionManager) purge(ctx context.Context) error {
	var errs []error
	if err := m.store.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear session: %w", err))
	}
	if m.events != nil {
		if err := m.events.ClearFetched(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clear fetched events: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Current returns a copy of the active session, or nil.
func (m *SessionManager) Current() *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySession(m.session)
}

// IsLoggedIn returns true if a session is active.
func (m *SessionManager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.IsAuthenticated()
}

// IsAuthenticated implements driven.TokenProvider.
func (m *SessionManager) IsAuthenticated() bool {
	return m.IsLoggedIn()
}

// GetToken implements driven.TokenProvider.
func (m *SessionManager) GetToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.session.IsAuthenticated() {
		return "", domain.ErrAuthRequired
	}
	return m.session.DelegatedToken, nil
}

// UpdateGrant applies a refreshed grant to the active session and persists it.
// The in-memory session is only replaced once the store accepts it.
func (m *SessionManager) UpdateGrant(ctx context.Context, grant domain.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.session.IsAuthenticated() {
		return domain.ErrAuthRequired
	}
	if grant.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", domain.ErrInvalidInput)
	}

	updated := copySession(m.session)
	updated.Apply(grant)
	if err := m.store.Save(ctx, updated); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.session = updated
	return nil
}

// Generation increments on every login and every clear. Callers compare
// generations to detect that the session changed under them.
func (m *SessionManager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

func copySession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
