// Package diskv persists proemail state as one file per key using
// peterbourgon/diskv.
//
// The key layout mirrors the browser local storage of the original web
// client: session tokens are plain strings and event collections are JSON
// arrays. A data directory written by this package can be inspected with
// any text editor.
package diskv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

// Storage keys.
const (
	KeyIdentityToken  = "identity_token"
	KeyDelegatedToken = "delegated_token"
	KeyRefreshToken   = "refresh_token"
	KeyTokenExpiry    = "token_expiry"
	KeyUserEmail      = "user_email"
	KeyLastLogin      = "last_login"
	KeyCompleted      = "completed_events"
	KeyDeleted        = "deleted_events"
	KeyCustom         = "custom_events"
	KeyFetched        = "fetched_events"
)

var sessionKeys = []string{
	KeyIdentityToken, KeyDelegatedToken, KeyRefreshToken,
	KeyTokenExpiry, KeyUserEmail, KeyLastLogin,
}

// Store is a diskv-backed key/value store. Collection updates are
// read-modify-write and serialised by mu.
type Store struct {
	mu       sync.Mutex
	d        *diskv.Diskv
	basePath string
}

// NewStore opens a store rooted at dir. If dir is empty, defaults to
// ~/.proemail/data/kv.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".proemail", "data", "kv")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
			FilePerm:     0600,
			PathPerm:     0700,
		}),
		basePath: dir,
	}, nil
}

// Path returns the directory holding the key files.
func (s *Store) Path() string {
	return s.basePath
}

// SessionStore returns a SessionStore backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// EventStore returns an EventStore backed by this store.
func (s *Store) EventStore() driven.EventStore {
	return &eventStore{store: s}
}

// readString returns the value of key, or "" if it is absent.
func (s *Store) readString(key string) (string, error) {
	val, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return string(val), nil
}

// writeString stores value under key. An empty value erases the key.
func (s *Store) writeString(key, value string) error {
	if value == "" {
		return s.erase(key)
	}
	if err := s.d.WriteString(key, value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *Store) erase(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("erasing %s: %w", key, err)
	}
	return nil
}

// readJSON decodes key into v. Absent keys leave v untouched.
func (s *Store) readJSON(key string, v any) error {
	raw, err := s.readString(key)
	if err != nil || raw == "" {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *Store) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// formatMillis stores a time as Unix milliseconds, or "" for the zero time.
func formatMillis(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
