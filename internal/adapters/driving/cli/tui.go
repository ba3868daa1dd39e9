package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/proemail-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive dashboard.

The dashboard shows the event counters and the event list, and keeps
polling unread mail in the background while it is open.

Controls:
  ↑/k, ↓/j - Navigate events
  /        - Search
  Tab      - Cycle status filter
  Space    - Toggle completed
  d        - Delete
  r        - Refresh
  a        - Add a custom event
  L / O    - Sign in / sign out
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

// newProgram creates the bubbletea program; tests replace it.
var newProgram = func(model tea.Model) *tea.Program {
	return tea.NewProgram(model, tea.WithAltScreen())
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(dashboard, sessionService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	app.WithContext(ctx)

	p := newProgram(app)

	// Dashboard output goes to the program for as long as it runs.
	prev := presenter.SetTarget(tui.NewPresenter(p))
	defer presenter.SetTarget(prev)

	// Start scheduler if enabled (TUI is long-running, needs background tasks)
	if schedulerConfig.Enabled && scheduler != nil {
		go func() {
			if err := scheduler.Start(ctx); err != nil {
				logger.Warn("scheduler stopped: %v", err)
			}
		}()

		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Warn("scheduler stop error: %v", err)
			}
		}()
	}
	if tokenRefresher != nil {
		defer tokenRefresher.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
