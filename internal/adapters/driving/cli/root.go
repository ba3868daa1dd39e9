// Package cli provides the cobra command tree for proemail.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
	"github.com/custodia-labs/proemail-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationNoServices marks commands that run without bootstrapping.
const annotationNoServices = "proemail/no-services"

// Options are the global flags handed to the bootstrap function.
type Options struct {
	// ConfigDir overrides ~/.proemail.
	ConfigDir string

	// Ephemeral keeps session and event state in memory only.
	Ephemeral bool

	// Verbose enables debug logging.
	Verbose bool

	// Presenter receives everything the dashboard renders.
	Presenter driven.Presenter

	// Prompt receives interactive login instructions.
	Prompt io.Writer
}

// Services holds the wired application for the command tree.
type Services struct {
	Dashboard       driving.Dashboard
	Events          driving.EventService
	Sessions        driving.SessionService
	Refresher       driving.TokenRefresher
	Settings        driving.SettingsService
	Scheduler       driving.Scheduler
	SchedulerConfig domain.SchedulerConfig
	ConfigStore     driven.ConfigStore
	ConfigWatcher   driven.ConfigWatcher
	Exporter        driven.EventExporter

	// ConfigKeys lists the known config keys in display order.
	ConfigKeys []string

	// SecretKeys are masked by config list and config get.
	SecretKeys map[string]bool
}

// BootstrapFunc builds the services. The returned cleanup runs after the
// command finishes.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	bootstrap BootstrapFunc
	cleanup   func()

	dashboard       driving.Dashboard
	eventService    driving.EventService
	sessionService  driving.SessionService
	tokenRefresher  driving.TokenRefresher
	settingsService driving.SettingsService
	scheduler       driving.Scheduler
	schedulerConfig domain.SchedulerConfig
	configStore     driven.ConfigStore
	configWatcher   driven.ConfigWatcher
	exporter        driven.EventExporter
	configKeys      []string
	secretKeys      map[string]bool

	// presenter relays dashboard output to whichever surface is active.
	presenter = NewRelay(nil)
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagEphemeral bool
)

var rootCmd = &cobra.Command{
	Use:   "proemail",
	Short: "Turn unread mail into a tracked list of events",
	Long: `proemail signs in with Google, asks the proemail backend to extract
events from your unread mail, and keeps a local list of them that you can
mark complete, delete, restore and extend with your own events.

Run 'proemail login' to get started, then 'proemail fetch'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.proemail)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "keep session and events in memory only")
}

// SetBootstrap sets the function that wires services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs wired services directly.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	dashboard = s.Dashboard
	eventService = s.Events
	sessionService = s.Sessions
	tokenRefresher = s.Refresher
	settingsService = s.Settings
	scheduler = s.Scheduler
	schedulerConfig = s.SchedulerConfig
	configStore = s.ConfigStore
	configWatcher = s.ConfigWatcher
	exporter = s.Exporter
	configKeys = s.ConfigKeys
	secretKeys = s.SecretKeys
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)
	presenter.SetTarget(NewTablePresenter(cmd.OutOrStdout(), cmd.ErrOrStderr()))

	if bootstrap == nil || cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}

	services, done, err := bootstrap(cmd.Context(), Options{
		ConfigDir: flagConfigDir,
		Ephemeral: flagEphemeral,
		Verbose:   flagVerbose,
		Presenter: presenter,
		Prompt:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("starting proemail: %w", err)
	}
	SetServices(services)
	cleanup = done
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

// commandContext returns the command's context, falling back to Background
// when the command is executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// requireDashboard returns an error if the dashboard is not wired.
func requireDashboard() error {
	if dashboard == nil {
		return errors.New("dashboard not configured")
	}
	return nil
}
