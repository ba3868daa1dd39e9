package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore over a single-row table.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Load returns the persisted session, or nil if none.
func (s *sessionStore) Load(ctx context.Context) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT identity_token, delegated_token, refresh_token, token_expiry, user_email, acquired_at
		FROM session WHERE id = 1
	`)

	var sess domain.Session
	var expiry, acquired sql.NullString
	err := row.Scan(&sess.IdentityToken, &sess.DelegatedToken, &sess.RefreshToken,
		&expiry, &sess.UserEmail, &acquired)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	sess.TokenExpiry = parseNullableTime(expiry)
	sess.AcquiredAt = parseNullableTime(acquired)
	return &sess, nil
}

// Save replaces the persisted session. A nil session clears it.
func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return s.Clear(ctx)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO session (id, identity_token, delegated_token, refresh_token, token_expiry, user_email, acquired_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			identity_token = excluded.identity_token,
			delegated_token = excluded.delegated_token,
			refresh_token = excluded.refresh_token,
			token_expiry = excluded.token_expiry,
			user_email = excluded.user_email,
			acquired_at = excluded.acquired_at
	`, session.IdentityToken, session.DelegatedToken, session.RefreshToken,
		formatNullableTime(session.TokenExpiry), session.UserEmail,
		formatNullableTime(session.AcquiredAt))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear removes the persisted session.
func (s *sessionStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
