package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proemail-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep fetching events in the background",
	Long: `Runs until interrupted: restores the session, keeps the Google token
fresh, polls unread mail every poll.interval_minutes and prints the event
list after each cycle.

Changes to config.toml are picked up while running; a changed poll
interval or backend requires a restart.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ensureSession(ctx); err != nil {
		return err
	}
	if tokenRefresher != nil {
		if err := tokenRefresher.Start(ctx); err != nil {
			logger.Warn("Token refresher not started: %v", err)
		}
		defer tokenRefresher.Stop()
	}

	if configWatcher != nil {
		go func() {
			err := configWatcher.Watch(ctx, func() {
				if settingsService == nil {
					return
				}
				if err := settingsService.Validate(); err != nil {
					presenter.Warn("config.toml changed but is invalid: " + err.Error())
					return
				}
				logger.Info("Configuration reloaded")
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watch stopped: %v", err)
			}
		}()
	}

	cmd.Println("Watching for new events. Press Ctrl+C to stop.")

	errCh := make(chan error, 1)
	go func() {
		errCh <- scheduler.Start(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	if err := scheduler.Stop(); err != nil {
		logger.Warn("scheduler stop: %v", err)
	}
	cmd.Println("Stopped.")
	return nil
}
