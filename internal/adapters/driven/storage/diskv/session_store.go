package diskv

import (
	"context"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Load returns the session, or nil if no delegated token is stored.
func (s *sessionStore) Load(_ context.Context) (*domain.Session, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	vals := make(map[string]string, len(sessionKeys))
	for _, key := range sessionKeys {
		v, err := s.store.readString(key)
		if err != nil {
			return nil, err
		}
		vals[key] = v
	}
	if vals[KeyDelegatedToken] == "" {
		return nil, nil
	}

	return &domain.Session{
		IdentityToken:  vals[KeyIdentityToken],
		DelegatedToken: vals[KeyDelegatedToken],
		RefreshToken:   vals[KeyRefreshToken],
		TokenExpiry:    parseMillis(vals[KeyTokenExpiry]),
		UserEmail:      vals[KeyUserEmail],
		AcquiredAt:     parseMillis(vals[KeyLastLogin]),
	}, nil
}

// Save writes every session key. A nil session clears them.
func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return s.Clear(ctx)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	vals := map[string]string{
		KeyIdentityToken:  session.IdentityToken,
		KeyDelegatedToken: session.DelegatedToken,
		KeyRefreshToken:   session.RefreshToken,
		KeyTokenExpiry:    formatMillis(session.TokenExpiry),
		KeyUserEmail:      session.UserEmail,
		KeyLastLogin:      formatMillis(session.AcquiredAt),
	}
	for _, key := range sessionKeys {
		if err := s.store.writeString(key, vals[key]); err != nil {
			return err
		}
	}
	return nil
}

// Clear erases every session key.
func (s *sessionStore) Clear(_ context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, key := range sessionKeys {
		if err := s.store.erase(key); err != nil {
			return err
		}
	}
	return nil
}
