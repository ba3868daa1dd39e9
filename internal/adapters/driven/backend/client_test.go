package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) GetToken(_ context.Context) (string, error) {
	return s.token, s.err
}

func (s staticTokens) IsAuthenticated() bool {
	return s.err == nil && s.token != ""
}

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	handler  http.HandlerFunc
}

func newFakeBackend(t *testing.T, handler http.HandlerFunc) (*fakeBackend, *Client) {
	t.Helper()
	fb := &fakeBackend{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		fb.mu.Lock()
		fb.requests = append(fb.requests, rec)
		fb.mu.Unlock()
		fb.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL+"/", staticTokens{token: "access-1"}, Options{
		Timeout:   5 * time.Second,
		RateLimit: RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100},
	})
	return fb, client
}

func (f *fakeBackend) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_VerifyIdentity(t *testing.T) {
	fb, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"user":"ada@example.com"}`)
	})

	email, err := client.VerifyIdentity(context.Background(), "id-token")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
	req := fb.last()
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/", req.path)
	assert.Empty(t, req.auth, "identity verification is unauthenticated")
	assert.Equal(t, "id-token", req.body["token"])
}

func TestClient_VerifyIdentity_Rejected(t *testing.T) {
	_, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, "bad token\n")
	})

	_, err := client.VerifyIdentity(context.Background(), "id-token")

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadRequest, serr.Code)
	assert.Equal(t, "bad token", serr.Body)
}

func TestClient_VerifyIdentity_EmptyToken(t *testing.T) {
	_, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.VerifyIdentity(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_ListUnread(t *testing.T) {
	fb, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"m1","subject":"Talk"},{"id":"","subject":"junk"},{"id":"m2"}]`)
	})

	refs, err := client.ListUnread(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.MessageRef{{ID: "m1", Subject: "Talk"}, {ID: "m2"}}, refs)
	req := fb.last()
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/fetch_emails", req.path)
	assert.Equal(t, "Bearer access-1", req.auth)
}

func TestClient_ListUnread_Unauthorized(t *testing.T) {
	_, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error":"invalid token"}`)
	})

	_, err := client.ListUnread(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuthExpired)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_ListUnread_ServerError(t *testing.T) {
	_, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadGateway, "upstream down")
	})

	_, err := client.ListUnread(context.Background())

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.False(t, IsUnauthorized(err))
}

func TestClient_ListUnread_NoToken(t *testing.T) {
	_, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})
	client.tokens = staticTokens{err: domain.ErrAuthRequired}

	_, err := client.ListUnread(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestClient_ExtractEvents(t *testing.T) {
	fb, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[
			{"event_name":" Talk A ","type":"talk","date":"2024-01-01","time":"10:00","venue":"Hall","attendees":40},
			{"event_name":"Dinner","attendees":"a few","venue":null},
			{"event_name":"","date":"2024-01-02"}
		]`)
	})

	events, err := client.ExtractEvents(context.Background(), "m1")

	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.Event{
		Name:      "Talk A",
		Type:      "talk",
		Date:      "2024-01-01",
		Time:      "10:00",
		Venue:     "Hall",
		Attendees: "40",
	}, events[0])
	assert.Equal(t, "a few", events[1].Attendees)
	assert.Empty(t, events[1].Venue)
	assert.Equal(t, domain.UntitledEventName, events[2].Name)
	assert.Equal(t, "2024-01-02", events[2].Date)

	req := fb.last()
	assert.Equal(t, "/process_emails", req.path)
	assert.Equal(t, "m1", req.body["emailId"])
	assert.Equal(t, "Bearer access-1", req.auth)
}

func TestClient_ExtractEvents_NullBody(t *testing.T) {
	_, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `null`)
	})

	events, err := client.ExtractEvents(context.Background(), "m1")

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClient_ExtractEvents_Malformed(t *testing.T) {
	_, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"oops":`)
	})

	_, err := client.ExtractEvents(context.Background(), "m1")
	assert.Error(t, err)
}

func TestClient_AddEvent(t *testing.T) {
	fb, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	err := client.AddEvent(context.Background(), &domain.Event{
		ID:        "ignored",
		Name:      "Talk A",
		Date:      "2024-01-01",
		Time:      "10:00",
		Attendees: "12",
	})

	require.NoError(t, err)
	req := fb.last()
	assert.Equal(t, "/add_to_calendar", req.path)
	assert.Equal(t, "Talk A", req.body["event_name"])
	assert.Equal(t, float64(12), req.body["attendees"])
	assert.NotContains(t, req.body, "id")
	assert.NotContains(t, req.body, "venue")
}

func TestClient_AddEvent_Untitled(t *testing.T) {
	fb, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"event_name":"","date":"2024-01-02"}]`)
	})

	events, err := client.ExtractEvents(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, client.AddEvent(context.Background(), &events[0]))

	req := fb.last()
	assert.Equal(t, "/add_to_calendar", req.path)
	assert.Equal(t, domain.UntitledEventName, req.body["event_name"])
	assert.Equal(t, "2024-01-02", req.body["date"])
}

func TestClient_AddEvent_Nil(t *testing.T) {
	_, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {})
	assert.ErrorIs(t, client.AddEvent(context.Background(), nil), domain.ErrInvalidInput)
}

func TestClient_StoreRefreshToken(t *testing.T) {
	fb, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.StoreRefreshToken(context.Background(), "refresh-1"))
	req := fb.last()
	assert.Equal(t, "/store-tokens", req.path)
	assert.Equal(t, "refresh-1", req.body["refresh_token"])
}

func TestClient_RateLimitedSetsBackoff(t *testing.T) {
	_, client := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		writeJSON(w, http.StatusTooManyRequests, "slow down")
	})

	before := time.Now()
	_, err := client.ListUnread(context.Background())

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.True(t, IsRateLimited(err))
	retryAt := client.limiter.RetryAt()
	assert.True(t, retryAt.After(before.Add(29*time.Second)))
	assert.False(t, client.limiter.Allow())
}

func TestClient_BaseURL(t *testing.T) {
	c := NewClient("https://backend.example.com//", staticTokens{}, Options{})
	assert.Equal(t, "https://backend.example.com", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}
