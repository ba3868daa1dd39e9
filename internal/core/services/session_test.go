package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

type sessionFixture struct {
	manager  *SessionManager
	store    *memory.SessionStore
	events   *memory.EventStore
	identity *mockIdentity
	backend  *mockBackend
}

func newSessionFixture(opts SessionOptions) *sessionFixture {
	f := &sessionFixture{
		store:    memory.NewSessionStore(),
		events:   memory.NewEventStore(),
		identity: newMockIdentity(),
		backend:  newMockBackend(),
	}
	f.manager = NewSessionManager(f.store, f.identity, f.backend, f.events, opts)
	f.manager.now = fixedClock
	return f
}

func TestSessionManager_Load_Empty(t *testing.T) {
	f := newSessionFixture(SessionOptions{})

	session, err := f.manager.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, session)
	assert.False(t, f.manager.IsLoggedIn())
}

func TestSessionManager_Load_Fresh(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, &domain.Session{
		DelegatedToken: "access",
		UserEmail:      "user@example.com",
		AcquiredAt:     testNow.Add(-48 * time.Hour),
	}))

	session, err := f.manager.Load(ctx)

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "user@example.com", session.UserEmail)
	assert.True(t, f.manager.IsLoggedIn())

	token, err := f.manager.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access", token)
}

func TestSessionManager_Load_Stale(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, &domain.Session{
		DelegatedToken: "access",
		AcquiredAt:     testNow.Add(-8 * 24 * time.Hour),
	}))

	session, err := f.manager.Load(ctx)

	require.NoError(t, err)
	assert.Nil(t, session)
	assert.False(t, f.manager.IsLoggedIn())

	stored, _ := f.store.Load(ctx)
	assert.Nil(t, stored, "stale session should be cleared")
}

func TestSessionManager_Load_CustomWindow(t *testing.T) {
	f := newSessionFixture(SessionOptions{FreshnessWindow: time.Hour})
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, &domain.Session{
		DelegatedToken: "access",
		AcquiredAt:     testNow.Add(-2 * time.Hour),
	}))

	session, err := f.manager.Load(ctx)

	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionManager_Login_Success(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	ctx := context.Background()
	before := f.manager.Generation()

	session, err := f.manager.Login(ctx)

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "user@example.com", session.UserEmail)
	assert.Equal(t, "access-1", session.DelegatedToken)
	assert.Equal(t, testNow, session.AcquiredAt)
	assert.True(t, f.manager.IsLoggedIn())
	assert.Greater(t, f.manager.Generation(), before)

	stored, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "refresh-1", stored.RefreshToken)
	assert.Empty(t, f.backend.storedRefresh, "refresh token is only handed over when enabled")
}

func TestSessionManager_Login_StoresRefreshToken(t *testing.T) {
	f := newSessionFixture(SessionOptions{StoreRefreshToken: true})

	_, err := f.manager.Login(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "refresh-1", f.backend.storedRefresh)
}

func TestSessionManager_Login_StoreRefreshTokenFailureIsNotFatal(t *testing.T) {
	f := newSessionFixture(SessionOptions{StoreRefreshToken: true})
	f.backend.storeErr = errors.New("backend down")

	_, err := f.manager.Login(context.Background())

	require.NoError(t, err)
	assert.True(t, f.manager.IsLoggedIn())
}

func TestSessionManager_Login_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *sessionFixture)
	}{
		{"provider error", func(f *sessionFixture) { f.identity.authErr = errors.New("user closed the window") }},
		{"incomplete grant", func(f *sessionFixture) { f.identity.grant = &domain.Grant{AccessToken: "a"} }},
		{"backend rejects identity", func(f *sessionFixture) { f.backend.verifyErr = errors.New("network down") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(SessionOptions{})
			tt.setup(f)
			ctx := context.Background()

			session, err := f.manager.Login(ctx)

			assert.Nil(t, session)
			assert.ErrorIs(t, err, domain.ErrLoginFailed)
			assert.False(t, f.manager.IsLoggedIn())
			stored, _ := f.store.Load(ctx)
			assert.Nil(t, stored, "nothing may be persisted on failure")
		})
	}
}

func TestSessionManager_Logout(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	ctx := context.Background()
	_, err := f.manager.Login(ctx)
	require.NoError(t, err)

	require.NoError(t, f.events.ReplaceFetched(ctx, []domain.Event{{ID: "f1", Name: "Talk A"}}))
	require.NoError(t, f.events.SaveCustom(ctx, &domain.Event{ID: "c1", Name: "Gym", Origin: domain.OriginCustom}))
	require.NoError(t, f.events.SetCompleted(ctx, "c1", true))

	require.NoError(t, f.manager.Logout(ctx))

	assert.False(t, f.manager.IsLoggedIn())
	assert.Equal(t, []string{"access-1"}, f.identity.revoked)

	stored, _ := f.store.Load(ctx)
	assert.Nil(t, stored)

	fetched, _ := f.events.ListFetched(ctx)
	assert.Empty(t, fetched)
	custom, _ := f.events.ListCustom(ctx)
	assert.Len(t, custom, 1, "custom events survive logout")
	completed, _ := f.events.ListCompleted(ctx)
	assert.Equal(t, []string{"c1"}, completed)

	_, err = f.manager.GetToken(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestSessionManager_Logout_RevokeFailureStillClears(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	ctx := context.Background()
	_, _ = f.manager.Login(ctx)
	f.identity.revokeErr = errors.New("revoke failed")

	require.NoError(t, f.manager.Logout(ctx))

	assert.False(t, f.manager.IsLoggedIn())
}

func TestSessionManager_Invalidate(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	ctx := context.Background()
	_, _ = f.manager.Login(ctx)
	gen := f.manager.Generation()

	require.NoError(t, f.manager.Invalidate(ctx))

	assert.False(t, f.manager.IsLoggedIn())
	assert.Empty(t, f.identity.revoked, "invalidate must not contact the provider")
	assert.Greater(t, f.manager.Generation(), gen)
}

func TestSessionManager_UpdateGrant(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	ctx := context.Background()
	_, _ = f.manager.Login(ctx)
	expiry := testNow.Add(time.Hour)

	require.NoError(t, f.manager.UpdateGrant(ctx, domain.Grant{AccessToken: "access-2", Expiry: expiry}))

	current := f.manager.Current()
	assert.Equal(t, "access-2", current.DelegatedToken)
	assert.Equal(t, "refresh-1", current.RefreshToken)
	assert.Equal(t, expiry, current.TokenExpiry)
	assert.Equal(t, testNow, current.AcquiredAt)

	stored, _ := f.store.Load(ctx)
	assert.Equal(t, "access-2", stored.DelegatedToken)
}

func TestSessionManager_UpdateGrant_Errors(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	ctx := context.Background()

	err := f.manager.UpdateGrant(ctx, domain.Grant{AccessToken: "a"})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, _ = f.manager.Login(ctx)
	err = f.manager.UpdateGrant(ctx, domain.Grant{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionManager_CurrentIsCopy(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	_, _ = f.manager.Login(context.Background())

	c := f.manager.Current()
	c.DelegatedToken = "tampered"

	assert.Equal(t, "access-1", f.manager.Current().DelegatedToken)
}
