package services

import (
	"fmt"
	"net/url"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyBackendURL        = "backend.url"
	KeyBackendTimeout    = "backend.timeout_seconds"
	KeyBackendRPS        = "backend.requests_per_second"
	KeyBackendBurst      = "backend.burst"
	KeyStoreRefreshToken = "backend.store_refresh_token"
	KeyGoogleClientID    = "google.client_id"
	KeyGoogleSecret      = "google.client_secret"
	KeyVerifyIDToken     = "google.verify_id_token"
	KeyFreshnessDays     = "session.freshness_days"
	KeyRefreshInterval   = "refresh.interval_minutes"
	KeyFetchAttempts     = "fetch.max_attempts"
	KeyFetchRetryDelay   = "fetch.retry_delay_ms"
	KeyFetchMessageCap   = "fetch.message_cap"
	KeyPollInterval      = "poll.interval_minutes"
	KeyCalendarMode      = "calendar.mode"
	KeyEventKeyMode      = "events.key_mode"
	KeyStorageBackend    = "storage.backend"
	KeyStorageDataDir    = "storage.data_dir"
)

// KnownConfigKeys lists every key the settings service reads, in display order.
func KnownConfigKeys() []string {
	return []string{
		KeyBackendURL, KeyBackendTimeout, KeyBackendRPS, KeyBackendBurst, KeyStoreRefreshToken,
		KeyGoogleClientID, KeyGoogleSecret, KeyVerifyIDToken,
		KeyFreshnessDays, KeyRefreshInterval,
		KeyFetchAttempts, KeyFetchRetryDelay, KeyFetchMessageCap, KeyPollInterval,
		KeyCalendarMode, KeyEventKeyMode,
		KeyStorageBackend, KeyStorageDataDir,
	}
}

// SecretConfigKeys are masked when listed.
func SecretConfigKeys() map[string]bool {
	return map[string]bool{KeyGoogleSecret: true}
}

// SettingsService maps the flat config store onto typed settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			URL:               s.getString(KeyBackendURL, d.Backend.URL),
			Timeout:           s.getDuration(KeyBackendTimeout, time.Second, d.Backend.Timeout),
			RequestsPerSecond: s.getFloat(KeyBackendRPS, d.Backend.RequestsPerSecond),
			Burst:             s.getInt(KeyBackendBurst, d.Backend.Burst),
			StoreRefreshToken: s.getBool(KeyStoreRefreshToken, d.Backend.StoreRefreshToken),
		},
		Google: domain.GoogleSettings{
			ClientID:      s.configStore.GetString(KeyGoogleClientID),
			ClientSecret:  s.configStore.GetString(KeyGoogleSecret),
			VerifyIDToken: s.getBool(KeyVerifyIDToken, d.Google.VerifyIDToken),
		},
		Session: domain.SessionSettings{
			FreshnessWindow: s.getDuration(KeyFreshnessDays, 24*time.Hour, d.Session.FreshnessWindow),
			RefreshInterval: s.getDuration(KeyRefreshInterval, time.Minute, d.Session.RefreshInterval),
		},
		Fetch: domain.FetchSettings{
			MaxAttempts:  s.getInt(KeyFetchAttempts, d.Fetch.MaxAttempts),
			RetryDelay:   s.getDuration(KeyFetchRetryDelay, time.Millisecond, d.Fetch.RetryDelay),
			MessageCap:   s.getInt(KeyFetchMessageCap, d.Fetch.MessageCap),
			PollInterval: s.getDuration(KeyPollInterval, time.Minute, d.Fetch.PollInterval),
		},
		Calendar: s.getCalendarMode(d.Calendar),
		KeyMode:  s.getKeyMode(d.KeyMode),
		Storage: domain.StorageSettings{
			Backend: s.getStorageBackend(d.Storage.Backend),
			DataDir: s.configStore.GetString(KeyStorageDataDir),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyBackendURL, settings.Backend.URL},
		{KeyBackendTimeout, int(settings.Backend.Timeout / time.Second)},
		{KeyBackendRPS, settings.Backend.RequestsPerSecond},
		{KeyBackendBurst, settings.Backend.Burst},
		{KeyStoreRefreshToken, settings.Backend.StoreRefreshToken},
		{KeyGoogleClientID, settings.Google.ClientID},
		{KeyVerifyIDToken, settings.Google.VerifyIDToken},
		{KeyFreshnessDays, int(settings.Session.FreshnessWindow / (24 * time.Hour))},
		{KeyRefreshInterval, int(settings.Session.RefreshInterval / time.Minute)},
		{KeyFetchAttempts, settings.Fetch.MaxAttempts},
		{KeyFetchRetryDelay, int(settings.Fetch.RetryDelay / time.Millisecond)},
		{KeyFetchMessageCap, settings.Fetch.MessageCap},
		{KeyPollInterval, int(settings.Fetch.PollInterval / time.Minute)},
		{KeyCalendarMode, settings.Calendar.String()},
		{KeyEventKeyMode, settings.KeyMode.String()},
		{KeyStorageBackend, settings.Storage.Backend.String()},
		{KeyStorageDataDir, settings.Storage.DataDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Secrets are only written when set, so a blank form never wipes them.
	if settings.Google.ClientSecret != "" {
		if err := s.configStore.Set(KeyGoogleSecret, settings.Google.ClientSecret); err != nil {
			return fmt.Errorf("save %s: %w", KeyGoogleSecret, err)
		}
	}
	return nil
}

// SetCalendarMode updates where extracted events are forwarded.
func (s *SettingsService) SetCalendarMode(mode domain.CalendarMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: calendar mode %q", domain.ErrInvalidInput, mode)
	}
	return s.configStore.Set(KeyCalendarMode, mode.String())
}

// SetKeyMode updates how events are keyed.
func (s *SettingsService) SetKeyMode(mode domain.KeyMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: key mode %q", domain.ErrInvalidInput, mode)
	}
	return s.configStore.Set(KeyEventKeyMode, mode.String())
}

// SetGoogleClient stores the OAuth client credentials.
func (s *SettingsService) SetGoogleClient(clientID, clientSecret string) error {
	if clientID == "" {
		return fmt.Errorf("%w: client ID is required", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(KeyGoogleClientID, clientID); err != nil {
		return err
	}
	if clientSecret == "" {
		return nil
	}
	return s.configStore.Set(KeyGoogleSecret, clientSecret)
}

// Validate checks that the stored settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	u, err := url.Parse(settings.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend url %q", domain.ErrInvalidInput, settings.Backend.URL)
	}
	if raw := s.configStore.GetString(KeyCalendarMode); raw != "" && !domain.CalendarMode(raw).IsValid() {
		return fmt.Errorf("%w: calendar mode %q", domain.ErrInvalidInput, raw)
	}
	if raw := s.configStore.GetString(KeyEventKeyMode); raw != "" && !domain.KeyMode(raw).IsValid() {
		return fmt.Errorf("%w: key mode %q", domain.ErrInvalidInput, raw)
	}
	if raw := s.configStore.GetString(KeyStorageBackend); raw != "" && !domain.StorageBackend(raw).IsValid() {
		return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, raw)
	}
	if settings.Calendar == domain.CalendarModeGoogle && !settings.Google.IsConfigured() {
		return fmt.Errorf("%w: calendar mode google requires %s", domain.ErrInvalidInput, KeyGoogleClientID)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// SchedulerConfig derives the scheduler configuration from settings.
func SchedulerConfig(settings *domain.AppSettings) domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()
	cfg.TaskConfigs[domain.TaskIDMailPoll] = domain.TaskConfig{
		Enabled:  settings.Fetch.PollInterval > 0,
		Interval: settings.Fetch.PollInterval,
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getDuration reads an integer count of unit.
func (s *SettingsService) getDuration(key string, unit, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * unit
}

func (s *SettingsService) getCalendarMode(defaultVal domain.CalendarMode) domain.CalendarMode {
	mode := domain.CalendarMode(s.configStore.GetString(KeyCalendarMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getKeyMode(defaultVal domain.KeyMode) domain.KeyMode {
	mode := domain.KeyMode(s.configStore.GetString(KeyEventKeyMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
