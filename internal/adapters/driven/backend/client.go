package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.Backend      = (*Client)(nil)
	_ driven.CalendarSink = (*Client)(nil)
)

const (
	pathVerify      = "/"
	pathFetchEmails = "/fetch_emails"
	pathProcess     = "/process_emails"
	pathCalendar    = "/add_to_calendar"
	pathStoreTokens = "/store-tokens"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// Timeout bounds each request. Zero uses DefaultTimeout.
	Timeout time.Duration
	// RateLimit throttles outgoing requests.
	RateLimit RateLimitConfig
	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the extraction backend over JSON/HTTP.
type Client struct {
	baseURL string
	tokens  driven.TokenProvider
	http    *http.Client
	limiter *RateLimiter
}

// NewClient creates a backend client rooted at baseURL. Authenticated calls
// take the delegated token from tokens.
func NewClient(baseURL string, tokens driven.TokenProvider, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    httpClient,
		limiter: NewRateLimiter(opts.RateLimit),
	}
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// VerifyIdentity exchanges a Google ID token for the account email.
func (c *Client) VerifyIdentity(ctx context.Context, idToken string) (string, error) {
	if idToken == "" {
		return "", fmt.Errorf("verify identity: %w", domain.ErrInvalidInput)
	}
	var resp verifyResponse
	if err := c.do(ctx, http.MethodPost, pathVerify, verifyRequest{Token: idToken}, &resp, false); err != nil {
		return "", fmt.Errorf("verify identity: %w", err)
	}
	if resp.User == "" {
		return "", fmt.Errorf("verify identity: backend returned no user")
	}
	return resp.User, nil
}

// ListUnread lists the user's unread messages.
func (c *Client) ListUnread(ctx context.Context) ([]domain.MessageRef, error) {
	var wire []messageWire
	if err := c.do(ctx, http.MethodGet, pathFetchEmails, nil, &wire, true); err != nil {
		return nil, err
	}
	refs := make([]domain.MessageRef, 0, len(wire))
	for _, m := range wire {
		if m.ID == "" {
			continue
		}
		refs = append(refs, domain.MessageRef{ID: m.ID, Subject: m.Subject})
	}
	return refs, nil
}

// ExtractEvents asks the backend to extract events from one message.
// Entries without a name are dropped.
func (c *Client) ExtractEvents(ctx context.Context, messageID string) ([]domain.Event, error) {
	if messageID == "" {
		return nil, fmt.Errorf("extract events: %w", domain.ErrInvalidInput)
	}
	var wire []eventWire
	if err := c.do(ctx, http.MethodPost, pathProcess, processRequest{EmailID: messageID}, &wire, true); err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(wire))
	for _, w := range wire {
		ev := w.toDomain()
		if ev.Name == "" {
			ev.Name = domain.UntitledEventName
		}
		events = append(events, ev)
	}
	return events, nil
}

// AddEvent forwards an event to the backend's calendar endpoint.
func (c *Client) AddEvent(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return fmt.Errorf("add to calendar: %w", domain.ErrInvalidInput)
	}
	return c.do(ctx, http.MethodPost, pathCalendar, toCalendarWire(event), nil, true)
}

// StoreRefreshToken hands the refresh token to the backend.
func (c *Client) StoreRefreshToken(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("store refresh token: %w", domain.ErrInvalidInput)
	}
	return c.do(ctx, http.MethodPost, pathStoreTokens, storeTokensRequest{RefreshToken: refreshToken}, nil, true)
}

// do performs one request. in is sent as the JSON body when non-nil and the
// response is decoded into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authenticated bool) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			c.limiter.Backoff(parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()))
		}
		return WrapStatus(method, path, resp.StatusCode, data)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
