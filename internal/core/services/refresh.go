package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
	"github.com/custodia-labs/proemail-cli/internal/logger"
)

// Ensure TokenRefresher implements the interface.
var _ driving.TokenRefresher = (*TokenRefresher)(nil)

// DefaultRefreshInterval is shorter than the provider's one hour access
// token lifetime.
const DefaultRefreshInterval = 50 * time.Minute

// TokenRefresher silently re-acquires the delegated token on a fixed interval.
type TokenRefresher struct {
	sessions driving.SessionService
	identity driven.IdentityProvider
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewTokenRefresher creates a refresher. A non-positive interval uses
// DefaultRefreshInterval.
func NewTokenRefresher(
	sessions driving.SessionService,
	identity driven.IdentityProvider,
	interval time.Duration,
) *TokenRefresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &TokenRefresher{
		sessions: sessions,
		identity: identity,
		interval: interval,
	}
}

// Start begins the refresh loop in the background. Starting a running
// refresher is a no-op.
func (r *TokenRefresher) Start(ctx context.Context) error {
	if !r.sessions.IsLoggedIn() {
		return domain.ErrAuthRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.running = true
	r.cancel = cancel
	r.wg.Add(1)
	go r.loop(loopCtx)

	logger.Debug("Token refresher started, interval %s", r.interval)
	return nil
}

func (r *TokenRefresher) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Logout may have raced the tick.
			if ctx.Err() != nil || !r.sessions.IsLoggedIn() {
				continue
			}
			if _, err := r.Refresh(ctx); err != nil {
				logger.Error("token refresh: %v", err)
			}
		}
	}
}

// Refresh performs one silent refresh. On failure the previous token
// stays in place.
func (r *TokenRefresher) Refresh(ctx context.Context) (*domain.Session, error) {
	current := r.sessions.Current()
	if current == nil {
		return nil, domain.ErrAuthRequired
	}
	if !current.HasRefreshToken() {
		return nil, fmt.Errorf("%w: no refresh token", domain.ErrTokenRefreshFailed)
	}

	grant, err := r.identity.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}
	if grant == nil {
		return nil, fmt.Errorf("%w: empty grant", domain.ErrTokenRefreshFailed)
	}
	if err := r.sessions.UpdateGrant(ctx, *grant); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}

	logger.Debug("Delegated token refreshed, expires %s", grant.Expiry.Format(time.RFC3339))
	return r.sessions.Current(), nil
}

// Stop cancels the loop and waits for an in-flight refresh to finish.
func (r *TokenRefresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.cancel()
	r.mu.Unlock()

	r.wg.Wait()
	logger.Debug("Token refresher stopped")
}

// Running returns true while the loop is active.
func (r *TokenRefresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
