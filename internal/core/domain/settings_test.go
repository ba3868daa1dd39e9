package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendarMode_IsValid(t *testing.T) {
	tests := []struct {
		mode     CalendarMode
		expected bool
	}{
		{CalendarModeBackend, true},
		{CalendarModeGoogle, true},
		{CalendarModeOff, true},
		{CalendarMode(""), false},
		{CalendarMode("outlook"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mode.IsValid())
		})
	}
}

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageSQLite.IsValid())
	assert.True(t, StorageDiskv.IsValid())
	assert.True(t, StorageMemory.IsValid())
	assert.False(t, StorageBackend("postgres").IsValid())
	assert.Equal(t, "diskv", StorageDiskv.String())
}

func TestGoogleSettings_IsConfigured(t *testing.T) {
	assert.False(t, GoogleSettings{}.IsConfigured())
	assert.True(t, GoogleSettings{ClientID: "abc.apps.googleusercontent.com"}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultBackendURL, s.Backend.URL)
	assert.Equal(t, 30*time.Second, s.Backend.Timeout)
	assert.False(t, s.Backend.StoreRefreshToken)

	assert.Equal(t, 7*24*time.Hour, s.Session.FreshnessWindow)
	assert.Equal(t, 50*time.Minute, s.Session.RefreshInterval)

	assert.Equal(t, 3, s.Fetch.MaxAttempts)
	assert.Equal(t, time.Second, s.Fetch.RetryDelay)
	assert.Equal(t, 10, s.Fetch.MessageCap)

	assert.Equal(t, CalendarModeBackend, s.Calendar)
	assert.Equal(t, KeyByID, s.KeyMode)
	assert.Equal(t, StorageSQLite, s.Storage.Backend)
	assert.True(t, s.Calendar.IsValid())
	assert.True(t, s.KeyMode.IsValid())
}
