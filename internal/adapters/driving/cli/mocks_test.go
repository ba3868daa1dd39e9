package cli

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

// mockDashboard implements driving.Dashboard and records calls.
type mockDashboard struct {
	presenter driven.Presenter
	view      *domain.EventView
	report    *domain.CycleReport
	added     domain.Event
	err       error

	calls     []string
	lastKey   string
	completed bool
	query     string
	lastAdded domain.Event
}

func (m *mockDashboard) record(call string) { m.calls = append(m.calls, call) }

func (m *mockDashboard) render() {
	if m.presenter != nil && m.view != nil {
		m.presenter.Render(*m.view)
	}
}

func (m *mockDashboard) Start(_ context.Context) error {
	m.record("start")
	return m.err
}

func (m *mockDashboard) Login(_ context.Context) error {
	m.record("login")
	if m.err == nil && m.presenter != nil {
		m.presenter.ShowLoggedIn("ada@example.com")
	}
	return m.err
}

func (m *mockDashboard) Logout(_ context.Context) error {
	m.record("logout")
	if m.presenter != nil {
		m.presenter.ShowLoggedOut()
	}
	return m.err
}

func (m *mockDashboard) Refresh(_ context.Context) (*domain.CycleReport, error) {
	m.record("refresh")
	if m.err != nil {
		return nil, m.err
	}
	m.render()
	return m.report, nil
}

func (m *mockDashboard) MarkComplete(_ context.Context, key string, completed bool) error {
	m.record("mark")
	m.lastKey = key
	m.completed = completed
	if m.err == nil {
		m.render()
	}
	return m.err
}

func (m *mockDashboard) Delete(_ context.Context, key string) error {
	m.record("delete")
	m.lastKey = key
	if m.err == nil {
		m.render()
	}
	return m.err
}

func (m *mockDashboard) Restore(_ context.Context, key string) error {
	m.record("restore")
	m.lastKey = key
	return m.err
}

func (m *mockDashboard) AddCustom(_ context.Context, event domain.Event) (domain.Event, error) {
	m.record("add")
	m.lastAdded = event
	if m.err != nil {
		return domain.Event{}, m.err
	}
	m.render()
	return m.added, nil
}

func (m *mockDashboard) Search(_ context.Context, text string) error {
	m.record("search")
	m.query = text
	m.render()
	return m.err
}

func (m *mockDashboard) View(_ context.Context, _ time.Time) (*domain.EventView, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.view == nil {
		return &domain.EventView{}, nil
	}
	cp := *m.view
	cp.Events = append([]domain.ClassifiedEvent(nil), m.view.Events...)
	return &cp, nil
}

// mockEventService implements the parts of driving.EventService the
// commands use.
type mockEventService struct {
	driving.EventService
	tombstones []domain.Tombstone
	err        error
}

func (m *mockEventService) Tombstones(_ context.Context) ([]domain.Tombstone, error) {
	return m.tombstones, m.err
}

// mockSessions implements driving.SessionService.
type mockSessions struct {
	driving.SessionService
	stored   *domain.Session
	loggedIn bool
	loadErr  error
	loads    int
}

func (m *mockSessions) Load(_ context.Context) (*domain.Session, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.stored != nil {
		m.loggedIn = true
	}
	return m.stored, nil
}

func (m *mockSessions) IsLoggedIn() bool { return m.loggedIn }

// mockRefresher implements driving.TokenRefresher.
type mockRefresher struct {
	session  *domain.Session
	err      error
	started  bool
	stopped  bool
	refreshs int
}

func (m *mockRefresher) Start(_ context.Context) error {
	m.started = true
	return nil
}

func (m *mockRefresher) Refresh(_ context.Context) (*domain.Session, error) {
	m.refreshs++
	return m.session, m.err
}

func (m *mockRefresher) Stop() { m.stopped = true }

func (m *mockRefresher) Running() bool { return m.started && !m.stopped }

// mockSettings implements driving.SettingsService.
type mockSettings struct {
	settings    domain.AppSettings
	validateErr error

	calendarMode domain.CalendarMode
	clientID     string
	clientSecret string
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) SetCalendarMode(mode domain.CalendarMode) error {
	m.calendarMode = mode
	m.settings.Calendar = mode
	return nil
}

func (m *mockSettings) SetKeyMode(mode domain.KeyMode) error {
	m.settings.KeyMode = mode
	return nil
}

func (m *mockSettings) SetGoogleClient(clientID, clientSecret string) error {
	m.clientID = clientID
	m.clientSecret = clientSecret
	m.settings.Google.ClientID = clientID
	m.settings.Google.ClientSecret = clientSecret
	return nil
}

func (m *mockSettings) Validate() error { return m.validateErr }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

// mockConfigStore implements driven.ConfigStore in memory.
type mockConfigStore struct {
	data map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.data[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	i, _ := m.data[key].(int)
	return i
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	f, _ := m.data[key].(float64)
	return f
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *mockConfigStore) Keys() []string {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Unset(key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "/tmp/proemail/config.toml"
}

// mockExporter implements driven.EventExporter.
type mockExporter struct {
	exported *domain.EventView
}

func (m *mockExporter) Export(w io.Writer, view *domain.EventView) error {
	m.exported = view
	_, err := io.WriteString(w, "BEGIN:VCALENDAR\n")
	return err
}

func (m *mockExporter) Extension() string { return "ics" }

// testEnv holds the mocks wired into the command tree.
type testEnv struct {
	dashboard *mockDashboard
	events    *mockEventService
	sessions  *mockSessions
	refresher *mockRefresher
	settings  *mockSettings
	config    *mockConfigStore
	exporter  *mockExporter
}

// setupServices swaps the package-level services for mocks and restores
// them when the test finishes.
func setupServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		dashboard: &mockDashboard{presenter: presenter, view: sampleView()},
		events:    &mockEventService{},
		sessions:  &mockSessions{},
		refresher: &mockRefresher{},
		settings:  &mockSettings{settings: domain.DefaultAppSettings()},
		config:    newMockConfigStore(),
		exporter:  &mockExporter{},
	}

	oldBootstrap := bootstrap
	bootstrap = nil
	SetServices(&Services{
		Dashboard:   env.dashboard,
		Events:      env.events,
		Sessions:    env.sessions,
		Refresher:   env.refresher,
		Settings:    env.settings,
		ConfigStore: env.config,
		Exporter:    env.exporter,
		ConfigKeys:  []string{"backend.url", "google.client_id", "google.client_secret", "fetch.message_cap"},
		SecretKeys:  map[string]bool{"google.client_secret": true},
	})

	t.Cleanup(func() {
		bootstrap = oldBootstrap
		dashboard = nil
		eventService = nil
		sessionService = nil
		tokenRefresher = nil
		settingsService = nil
		scheduler = nil
		configStore = nil
		configWatcher = nil
		exporter = nil
		configKeys = nil
		secretKeys = nil
		resetFlags()
	})
	return env
}

// resetFlags clears flag variables that persist between Execute calls.
func resetFlags() {
	listStatus = ""
	listRefresh = false
	listJSON = false
	addName, addDate, addTime, addVenue, addType, addAttendees = "", "", "", "", "", ""
	exportPath = ""
	flagVerbose = false
	flagConfigDir = ""
	flagEphemeral = false
	resetHelpFlags(rootCmd)
}

// resetHelpFlags clears a --help left set on any command by an earlier run.
func resetHelpFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range cmd.Commands() {
		resetHelpFlags(sub)
	}
}

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()
	resetHelpFlags(rootCmd)

	err := rootCmd.Execute()
	return buf.String(), err
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() { stdin = old })
}

func sampleView() *domain.EventView {
	return &domain.EventView{
		Events: []domain.ClassifiedEvent{
			{
				Event:  domain.Event{ID: "9b2f6c1e-0d4a-4c55-8a43-6b1f7e2d9c10", Name: "Gym", Date: "2099-01-01", Time: "09:00", Origin: domain.OriginCustom},
				Key:    "9b2f6c1e-0d4a-4c55-8a43-6b1f7e2d9c10",
				Status: domain.StatusUpcoming,
			},
			{
				Event:  domain.Event{ID: "5d0c8e7a-2f14-5b3e-9c6d-1a2b3c4d5e6f", Name: "Talk A", Type: "Talk", Date: "2024-01-01", Time: "10:00", Venue: "Hall 1", Attendees: "30", Origin: domain.OriginFetched},
				Key:    "5d0c8e7a-2f14-5b3e-9c6d-1a2b3c4d5e6f",
				Status: domain.StatusMissed,
			},
			{
				Event:  domain.Event{ID: "5d0c8e7a-9999-5b3e-9c6d-1a2b3c4d5e70", Name: "Review", Date: "2024-02-01", Origin: domain.OriginFetched},
				Key:    "5d0c8e7a-9999-5b3e-9c6d-1a2b3c4d5e70",
				Status: domain.StatusCompleted,
			},
		},
		Summary: domain.Summary{Total: 3, Completed: 1, Missed: 1, Upcoming: 1, Attendees: 30},
	}
}

// captureOutput points the root command at a fresh buffer.
func captureOutput() *bytes.Buffer {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	return buf
}
