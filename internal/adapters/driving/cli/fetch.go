package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Extract events from unread mail",
	Long: `Runs one fetch cycle: lists unread mail, asks the backend to extract
events from each message, forwards them to the calendar and prints the
updated event list.

At most fetch.message_cap messages are processed per cycle.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if err := ensureSession(ctx); err != nil {
		return err
	}

	cmd.Println("Fetching unread mail...")
	report, err := dashboard.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	if report == nil {
		return nil
	}

	cmd.Printf("Processed %d of %d messages, %d events extracted", report.Processed, report.Listed, len(report.Events))
	if report.Failed > 0 {
		cmd.Printf(", %d failed", report.Failed)
	}
	if report.CalendarAdded > 0 || report.CalendarFailed > 0 {
		cmd.Printf(", %d added to calendar", report.CalendarAdded)
	}
	cmd.Println(".")
	return nil
}

// ensureSession restores the persisted session for one-shot commands.
func ensureSession(ctx context.Context) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if sessionService.IsLoggedIn() {
		return nil
	}
	session, err := sessionService.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("%w: run 'proemail login' first", domain.ErrAuthRequired)
	}
	return nil
}
