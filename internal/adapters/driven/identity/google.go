package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/idtoken"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/logger"
)

// Verify interface compliance.
var _ driven.IdentityProvider = (*GoogleProvider)(nil)

// RevokeURL is Google's token revocation endpoint.
const RevokeURL = "https://oauth2.googleapis.com/revoke"

// DefaultCallbackTimeout bounds how long login waits for the browser.
const DefaultCallbackTimeout = 5 * time.Minute

// DefaultScopes are requested on every login.
var DefaultScopes = []string{
	"openid",
	"email",
	gmail.GmailReadonlyScope,
	calendar.CalendarEventsScope,
}

// ErrNotConfigured is returned when no OAuth client ID is set.
var ErrNotConfigured = errors.New("google oauth client not configured")

// Config configures a GoogleProvider.
type Config struct {
	ClientID     string
	ClientSecret string

	// Scopes defaults to DefaultScopes.
	Scopes []string

	// VerifyIDToken validates the ID token audience locally before it is
	// handed to the backend.
	VerifyIDToken bool

	// CallbackPort fixes the loopback port. Zero picks a free one.
	CallbackPort int

	// CallbackTimeout defaults to DefaultCallbackTimeout.
	CallbackTimeout time.Duration

	// Endpoint defaults to google.Endpoint.
	Endpoint oauth2.Endpoint

	// RevokeURL defaults to RevokeURL.
	RevokeURL string

	// OpenBrowser is called with the consent URL. Defaults to OpenBrowser.
	OpenBrowser func(string) error

	// Prompt receives the consent URL for manual copying. May be nil.
	Prompt io.Writer

	// HTTPClient is used for token and revocation requests.
	HTTPClient *http.Client
}

// GoogleProvider runs Google OAuth flows.
type GoogleProvider struct {
	cfg      Config
	oauth    oauth2.Config
	validate func(ctx context.Context, idToken, audience string) error
}

// NewGoogleProvider creates a provider from cfg.
func NewGoogleProvider(cfg Config) *GoogleProvider {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}
	if cfg.CallbackTimeout <= 0 {
		cfg.CallbackTimeout = DefaultCallbackTimeout
	}
	if cfg.Endpoint.TokenURL == "" {
		cfg.Endpoint = google.Endpoint
	}
	if cfg.RevokeURL == "" {
		cfg.RevokeURL = RevokeURL
	}
	if cfg.OpenBrowser == nil {
		cfg.OpenBrowser = OpenBrowser
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &GoogleProvider{
		cfg: cfg,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     cfg.Endpoint,
			Scopes:       cfg.Scopes,
		},
		validate: validateIDToken,
	}
}

func validateIDToken(ctx context.Context, idToken, audience string) error {
	_, err := idtoken.Validate(ctx, idToken, audience)
	return err
}

// Authenticate runs the interactive consent flow.
func (p *GoogleProvider) Authenticate(ctx context.Context) (*domain.Grant, error) {
	if p.cfg.ClientID == "" {
		return nil, ErrNotConfigured
	}

	state, err := generateState()
	if err != nil {
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	server := NewCallbackServer(p.cfg.CallbackPort, state)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Debug("Stopping callback server: %v", err)
		}
	}()

	conf := p.oauth
	conf.RedirectURL = server.RedirectURI()

	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	if p.cfg.Prompt != nil {
		_, _ = fmt.Fprintf(p.cfg.Prompt, "Opening browser for Google sign-in. If it does not open, visit:\n%s\n", authURL)
	}
	if err := p.cfg.OpenBrowser(authURL); err != nil {
		logger.Warn("Could not open browser: %v", err)
	}

	code, err := server.WaitForCode(ctx, p.cfg.CallbackTimeout)
	if err != nil {
		return nil, err
	}

	tok, err := conf.Exchange(p.httpContext(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	grant := grantFromToken(tok)
	if grant.IDToken == "" {
		return nil, fmt.Errorf("provider returned no id token")
	}
	if p.cfg.VerifyIDToken {
		if err := p.validate(ctx, grant.IDToken, p.cfg.ClientID); err != nil {
			return nil, fmt.Errorf("validate id token: %w", err)
		}
	}
	return grant, nil
}

// Refresh exchanges a refresh token for a fresh access token.
func (p *GoogleProvider) Refresh(ctx context.Context, refreshToken string) (*domain.Grant, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh: %w", domain.ErrInvalidInput)
	}
	if p.cfg.ClientID == "" {
		return nil, ErrNotConfigured
	}

	src := p.oauth.TokenSource(p.httpContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	return grantFromToken(tok), nil
}

// Revoke invalidates token at Google.
func (p *GoogleProvider) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	form := url.Values{}
	form.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("revoke failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (p *GoogleProvider) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.cfg.HTTPClient)
}

func grantFromToken(tok *oauth2.Token) *domain.Grant {
	g := &domain.Grant{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if id, ok := tok.Extra("id_token").(string); ok {
		g.IDToken = id
	}
	return g
}
