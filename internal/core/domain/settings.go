package domain

import "time"

// CalendarMode selects where extracted events are forwarded.
type CalendarMode string

// Available calendar modes.
const (
	// CalendarModeBackend posts events to the backend's add_to_calendar endpoint.
	CalendarModeBackend CalendarMode = "backend"

	// CalendarModeGoogle inserts events directly into the user's primary Google Calendar.
	CalendarModeGoogle CalendarMode = "google"

	// CalendarModeOff disables forwarding.
	CalendarModeOff CalendarMode = "off"
)

// IsValid returns true if the calendar mode is recognised.
func (m CalendarMode) IsValid() bool {
	switch m {
	case CalendarModeBackend, CalendarModeGoogle, CalendarModeOff:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m CalendarMode) String() string {
	return string(m)
}

// StorageBackend selects the local state store.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageDiskv  StorageBackend = "diskv"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the storage backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageDiskv, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// BackendSettings configures the extraction backend client.
type BackendSettings struct {
	URL               string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	StoreRefreshToken bool
}

// GoogleSettings configures the OAuth client used for login.
type GoogleSettings struct {
	ClientID      string
	ClientSecret  string
	VerifyIDToken bool
}

// IsConfigured returns true if a client ID is set.
func (g GoogleSettings) IsConfigured() bool {
	return g.ClientID != ""
}

// SessionSettings configures session reuse and refresh.
type SessionSettings struct {
	FreshnessWindow time.Duration
	RefreshInterval time.Duration
}

// FetchSettings configures the fetch cycle.
type FetchSettings struct {
	MaxAttempts  int
	RetryDelay   time.Duration
	MessageCap   int
	PollInterval time.Duration
}

// StorageSettings configures local persistence.
type StorageSettings struct {
	Backend StorageBackend
	DataDir string
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Backend  BackendSettings
	Google   GoogleSettings
	Session  SessionSettings
	Fetch    FetchSettings
	Calendar CalendarMode
	KeyMode  KeyMode
	Storage  StorageSettings
}

// DefaultBackendURL is the hosted extraction backend.
const DefaultBackendURL = "https://email-backend-bu9l.onrender.com"

// DefaultAppSettings returns sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			URL:               DefaultBackendURL,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Session: SessionSettings{
			FreshnessWindow: DefaultFreshnessWindow,
			RefreshInterval: 50 * time.Minute,
		},
		Fetch: FetchSettings{
			MaxAttempts:  3,
			RetryDelay:   time.Second,
			MessageCap:   10,
			PollInterval: 5 * time.Minute,
		},
		Calendar: CalendarModeBackend,
		KeyMode:  KeyByID,
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
	}
}
