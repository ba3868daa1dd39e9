package driven

import (
	"context"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// Backend is the remote extraction service.
//
// Every method except VerifyIdentity authenticates with the delegated token
// from a TokenProvider. An HTTP 401 is reported as domain.ErrAuthExpired.
type Backend interface {
	// VerifyIdentity exchanges a provider ID token for the account email.
	VerifyIdentity(ctx context.Context, idToken string) (string, error)

	// ListUnread returns references to the user's unread messages in
	// listing order.
	ListUnread(ctx context.Context) ([]domain.MessageRef, error)

	// ExtractEvents asks the backend to extract events from one message.
	// The returned events carry only the extracted fields; identity and
	// origin are assigned by the caller.
	ExtractEvents(ctx context.Context, messageID string) ([]domain.Event, error)

	// StoreRefreshToken hands a refresh token to the backend so it can act
	// on the user's behalf while the client is offline.
	StoreRefreshToken(ctx context.Context, refreshToken string) error
}
