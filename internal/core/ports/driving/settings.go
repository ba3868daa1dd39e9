package driving

import "github.com/custodia-labs/proemail-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetCalendarMode updates where extracted events are forwarded.
	SetCalendarMode(mode domain.CalendarMode) error

	// SetKeyMode updates how events are keyed.
	SetKeyMode(mode domain.KeyMode) error

	// SetGoogleClient stores the OAuth client credentials.
	SetGoogleClient(clientID, clientSecret string) error

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
