package backend

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{})
	assert.Equal(t, DefaultRateLimit.BurstSize, r.limiter.Burst())
	assert.InDelta(t, DefaultRateLimit.RequestsPerSecond, float64(r.limiter.Limit()), 0.001)
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	require.True(t, r.Allow())

	r.Backoff(time.Hour)
	assert.False(t, r.Allow())
}

func TestRateLimiter_BackoffDefaultsWhenZero(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRateLimiter(RateLimitConfig{})
	r.now = func() time.Time { return now }

	r.Backoff(0)
	assert.Equal(t, now.Add(DefaultRetryAfter), r.RetryAt())
}

func TestRateLimiter_BackoffNeverShortens(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRateLimiter(RateLimitConfig{})
	r.now = func() time.Time { return now }

	r.Backoff(time.Minute)
	r.Backoff(time.Second)
	assert.Equal(t, now.Add(time.Minute), r.RetryAt())
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	r.Backoff(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_WaitAfterShortBackoff(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	r.Backoff(10 * time.Millisecond)

	start := time.Now()
	require.NoError(t, r.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "120", 2 * time.Minute},
		{"negative", "-5", 0},
		{"http date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{"past date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.value, now))
		})
	}
}

func TestStatusError(t *testing.T) {
	err := WrapStatus(http.MethodGet, "/fetch_emails", http.StatusNotFound, []byte("  missing \n"))
	assert.EqualError(t, err, "backend: GET /fetch_emails: status 404: missing")

	long := make([]byte, maxErrorBody*2)
	for i := range long {
		long[i] = 'x'
	}
	serr := WrapStatus(http.MethodPost, "/", http.StatusBadRequest, long).(*StatusError)
	assert.Len(t, serr.Body, maxErrorBody)

	bare := &StatusError{Method: http.MethodPost, Path: "/", Code: http.StatusTeapot}
	assert.EqualError(t, bare, "backend: POST /: status 418")
	assert.NoError(t, bare.Unwrap())
}
