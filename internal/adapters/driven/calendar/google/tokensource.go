package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

// tokenSource adapts a driven.TokenProvider to oauth2.TokenSource. Refresh
// is owned by the session, so every call asks the provider for the current
// delegated token.
type tokenSource struct {
	provider driven.TokenProvider
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource backed by provider.
func NewTokenSource(ctx context.Context, provider driven.TokenProvider) oauth2.TokenSource {
	return &tokenSource{provider: provider, ctx: ctx}
}

func (t *tokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.GetToken(t.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
}
