package domain

import "time"

// DefaultFreshnessWindow is how long a persisted session may be reused
// without an interactive login.
const DefaultFreshnessWindow = 7 * 24 * time.Hour

// Session is the signed-in user's state.
// It is created by an interactive login, its delegated token is replaced
// in place by silent refreshes, and it is destroyed on logout or when the
// backend rejects the delegated token.
type Session struct {
	// IdentityToken is the provider-issued proof of identity (an OpenID ID token).
	IdentityToken string `json:"identity_token"`

	// DelegatedToken is the short-lived access token for mailbox and calendar.
	DelegatedToken string `json:"delegated_token"`

	// RefreshToken allows silent re-acquisition of DelegatedToken.
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenExpiry is when DelegatedToken expires, if known.
	TokenExpiry time.Time `json:"token_expiry,omitempty"`

	// UserEmail is the account confirmed by the backend.
	UserEmail string `json:"user_email,omitempty"`

	// AcquiredAt is when the interactive login completed.
	AcquiredAt time.Time `json:"acquired_at"`
}

// IsFresh returns true if the session was acquired less than window ago.
func (s *Session) IsFresh(now time.Time, window time.Duration) bool {
	if s == nil || s.AcquiredAt.IsZero() {
		return false
	}
	return now.Sub(s.AcquiredAt) < window
}

// IsAuthenticated returns true if the session carries a delegated token.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.DelegatedToken != ""
}

// HasRefreshToken returns true if a silent refresh is possible.
func (s *Session) HasRefreshToken() bool {
	return s != nil && s.RefreshToken != ""
}

// TokenExpired returns true if the delegated token has a known expiry in the past.
func (s *Session) TokenExpired(now time.Time) bool {
	if s == nil || s.TokenExpiry.IsZero() {
		return false
	}
	return now.After(s.TokenExpiry)
}

// Apply replaces the delegated token with a refreshed grant.
// A grant without a refresh token keeps the current one.
func (s *Session) Apply(g Grant) {
	s.DelegatedToken = g.AccessToken
	s.TokenExpiry = g.Expiry
	if g.RefreshToken != "" {
		s.RefreshToken = g.RefreshToken
	}
	if g.IDToken != "" {
		s.IdentityToken = g.IDToken
	}
}

// Grant is what the identity provider returns from a login or refresh.
type Grant struct {
	// IDToken is present on interactive logins.
	IDToken string

	// AccessToken is the delegated access token.
	AccessToken string

	// RefreshToken is present when the provider issued or rotated one.
	RefreshToken string

	// Expiry is when AccessToken expires.
	Expiry time.Time
}
