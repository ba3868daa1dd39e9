package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// fetchedEventNamespace seeds the deterministic IDs of fetched events.
var fetchedEventNamespace = uuid.MustParse("6f1c2a9e-3b7d-5e0a-9c4f-8d2b1e7a6c35")

// FetchedEventID derives a stable ID for an event extracted from a message.
// The same message yielding the same event always produces the same ID.
func FetchedEventID(messageID string, e *domain.Event) string {
	name := strings.Join([]string{messageID, e.Name, e.Date, e.Time}, "|")
	return uuid.NewSHA1(fetchedEventNamespace, []byte(name)).String()
}

// newCustomEventID returns a random ID for a user-created event.
func newCustomEventID() string {
	return uuid.NewString()
}
