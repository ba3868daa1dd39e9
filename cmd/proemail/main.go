// Command proemail turns unread Gmail messages into a tracked list of events.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driven/backend"
	googlecal "github.com/custodia-labs/proemail-cli/internal/adapters/driven/calendar/google"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driven/export/ics"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driven/identity"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driven/storage/diskv"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/core/services"
	"github.com/custodia-labs/proemail-cli/internal/logger"
)

func main() {
	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// stores groups the persistence ports chosen by storage.backend.
type stores struct {
	sessions  driven.SessionStore
	events    driven.EventStore
	scheduler driven.SchedulerStore
	close     func()
}

// bootstrap wires every adapter and service for one command run.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func(), error) {
	logger.SetVerbose(opts.Verbose)

	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}
	logger.Debug("Config: %s", configStore.Path())

	st, err := openStores(settings, opts)
	if err != nil {
		return nil, nil, err
	}

	// The backend reads the delegated token from the session manager, which
	// itself needs the backend to verify logins.
	tokens := &sessionTokens{}
	client := backend.NewClient(settings.Backend.URL, tokens, backend.Options{
		Timeout: settings.Backend.Timeout,
		RateLimit: backend.RateLimitConfig{
			RequestsPerSecond: settings.Backend.RequestsPerSecond,
			BurstSize:         settings.Backend.Burst,
		},
	})

	idp := identity.NewGoogleProvider(identity.Config{
		ClientID:      settings.Google.ClientID,
		ClientSecret:  settings.Google.ClientSecret,
		VerifyIDToken: settings.Google.VerifyIDToken,
		Prompt:        opts.Prompt,
	})

	sessions := services.NewSessionManager(st.sessions, idp, client, st.events, services.SessionOptions{
		FreshnessWindow:   settings.Session.FreshnessWindow,
		StoreRefreshToken: settings.Backend.StoreRefreshToken,
	})
	tokens.provider = sessions

	sink, err := calendarSink(ctx, settings.Calendar, client, sessions)
	if err != nil {
		st.close()
		return nil, nil, err
	}

	reconciler := services.NewReconciler(st.events, settings.KeyMode)
	fetcher := services.NewFetcher(client, sink, opts.Presenter, services.FetchOptions{
		MaxAttempts: settings.Fetch.MaxAttempts,
		RetryDelay:  settings.Fetch.RetryDelay,
		MessageCap:  settings.Fetch.MessageCap,
	})
	refresher := services.NewTokenRefresher(sessions, idp, settings.Session.RefreshInterval)
	dashboard := services.NewDashboard(sessions, refresher, fetcher, reconciler, opts.Presenter)

	schedulerConfig := services.SchedulerConfig(settings)
	scheduler := services.NewScheduler(schedulerConfig, st.scheduler)
	scheduler.Register(domain.TaskIDMailPoll, "Mail poll", services.MailPollTask(dashboard, sessions))

	return &cli.Services{
		Dashboard:       dashboard,
		Events:          reconciler,
		Sessions:        sessions,
		Refresher:       refresher,
		Settings:        settingsService,
		Scheduler:       scheduler,
		SchedulerConfig: schedulerConfig,
		ConfigStore:     configStore,
		ConfigWatcher:   configStore,
		Exporter:        ics.NewExporter(),
		ConfigKeys:      services.KnownConfigKeys(),
		SecretKeys:      services.SecretConfigKeys(),
	}, st.close, nil
}

func openStores(settings *domain.AppSettings, opts cli.Options) (*stores, error) {
	backendKind := settings.Storage.Backend
	if opts.Ephemeral {
		backendKind = domain.StorageMemory
	}

	dataDir := settings.Storage.DataDir
	if dataDir == "" && opts.ConfigDir != "" {
		dataDir = filepath.Join(opts.ConfigDir, "data")
	}
	logger.Debug("Storage: %s", backendKind)

	switch backendKind {
	case domain.StorageMemory:
		return &stores{
			sessions:  memory.NewSessionStore(),
			events:    memory.NewEventStore(),
			scheduler: memory.NewSchedulerStore(),
			close:     func() {},
		}, nil

	case domain.StorageDiskv:
		dir := ""
		if dataDir != "" {
			dir = filepath.Join(dataDir, "kv")
		}
		kv, err := diskv.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("opening diskv store: %w", err)
		}
		return &stores{
			sessions:  kv.SessionStore(),
			events:    kv.EventStore(),
			scheduler: memory.NewSchedulerStore(),
			close:     func() {},
		}, nil

	default:
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return &stores{
			sessions:  db.SessionStore(),
			events:    db.EventStore(),
			scheduler: db.SchedulerStore(),
			close: func() {
				if err := db.Close(); err != nil {
					logger.Error("closing database: %v", err)
				}
			},
		}, nil
	}
}

func calendarSink(
	ctx context.Context,
	mode domain.CalendarMode,
	client *backend.Client,
	tokens driven.TokenProvider,
) (driven.CalendarSink, error) {
	switch mode {
	case domain.CalendarModeOff:
		return nil, nil
	case domain.CalendarModeGoogle:
		sink, err := googlecal.NewSink(ctx, tokens)
		if err != nil {
			return nil, fmt.Errorf("creating calendar sink: %w", err)
		}
		return sink, nil
	default:
		return client, nil
	}
}

// sessionTokens defers to the session manager once it exists.
type sessionTokens struct {
	provider driven.TokenProvider
}

func (t *sessionTokens) GetToken(ctx context.Context) (string, error) {
	if t.provider == nil {
		return "", domain.ErrAuthRequired
	}
	return t.provider.GetToken(ctx)
}

func (t *sessionTokens) IsAuthenticated() bool {
	return t.provider != nil && t.provider.IsAuthenticated()
}
