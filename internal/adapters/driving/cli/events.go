package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List and manage events",
	Long: `List the events extracted from your unread mail together with the
events you added yourself, and mark, delete or restore them.

Keys are shown in the KEY column; any unique prefix is accepted.`,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	RunE:  runEventsList,
}

var eventsSearchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search events by name, venue or type",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEventsSearch,
}

var eventsDoneCmd = &cobra.Command{
	Use:   "done [key]",
	Short: "Mark an event as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsDone,
}

var eventsUndoCmd = &cobra.Command{
	Use:   "undo [key]",
	Short: "Clear the completed mark of an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsUndo,
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete [key]",
	Short: "Hide an event",
	Long: `Hide an event. Deleted events stay hidden when the same mail is
fetched again. Use 'proemail events restore' to bring one back.`,
	Args: cobra.ExactArgs(1),
	RunE: runEventsDelete,
}

var eventsRestoreCmd = &cobra.Command{
	Use:   "restore [key]",
	Short: "Restore a deleted event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsRestore,
}

var eventsDeletedCmd = &cobra.Command{
	Use:   "deleted",
	Short: "List deleted events",
	RunE:  runEventsDeleted,
}

var eventsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom event",
	Long: `Add an event of your own. Custom events are kept until you delete
them and are listed before fetched events.

Example:
  proemail events add --name "Gym" --date 2026-11-02 --time 07:30`,
	RunE: runEventsAdd,
}

var eventsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show event counters",
	RunE:  runEventsSummary,
}

var (
	listStatus  string
	listRefresh bool
	listJSON    bool

	addName      string
	addDate      string
	addTime      string
	addVenue     string
	addType      string
	addAttendees string
)

func init() {
	eventsListCmd.Flags().StringVarP(&listStatus, "status", "s", "", "only show completed, missed or upcoming events")
	eventsListCmd.Flags().BoolVarP(&listRefresh, "refresh", "r", false, "fetch unread mail before listing")
	eventsListCmd.Flags().BoolVar(&listJSON, "json", false, "print events as JSON")

	eventsAddCmd.Flags().StringVarP(&addName, "name", "n", "", "event name (required)")
	eventsAddCmd.Flags().StringVarP(&addDate, "date", "d", "", "date as YYYY-MM-DD")
	eventsAddCmd.Flags().StringVarP(&addTime, "time", "t", "", "start time as HH:MM")
	eventsAddCmd.Flags().StringVar(&addVenue, "venue", "", "location")
	eventsAddCmd.Flags().StringVar(&addType, "type", "", "category, e.g. Meeting")
	eventsAddCmd.Flags().StringVar(&addAttendees, "attendees", "", "expected attendee count")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsSearchCmd)
	eventsCmd.AddCommand(eventsDoneCmd)
	eventsCmd.AddCommand(eventsUndoCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
	eventsCmd.AddCommand(eventsRestoreCmd)
	eventsCmd.AddCommand(eventsDeletedCmd)
	eventsCmd.AddCommand(eventsAddCmd)
	eventsCmd.AddCommand(eventsSummaryCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsList(cmd *cobra.Command, _ []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	var want domain.Status
	if listStatus != "" {
		want = domain.Status(strings.ToLower(listStatus))
		if !want.IsValid() {
			return fmt.Errorf("%w: status must be completed, missed or upcoming", domain.ErrInvalidInput)
		}
	}

	if listRefresh {
		if err := ensureSession(ctx); err != nil {
			return err
		}
		err := quietly(cmd, func() error {
			_, err := dashboard.Refresh(ctx)
			return err
		})
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
	}

	view, err := dashboard.View(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to build view: %w", err)
	}
	if want != "" {
		view.Events = view.Filter(want)
	}

	if listJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	NewTablePresenter(cmd.OutOrStdout(), cmd.ErrOrStderr()).Render(*view)
	return nil
}

func runEventsSearch(cmd *cobra.Command, args []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	return dashboard.Search(commandContext(cmd), strings.Join(args, " "))
}

func runEventsDone(cmd *cobra.Command, args []string) error {
	return runMark(cmd, args[0], true)
}

func runEventsUndo(cmd *cobra.Command, args []string) error {
	return runMark(cmd, args[0], false)
}

func runMark(cmd *cobra.Command, arg string, completed bool) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	key, err := resolveKey(ctx, arg, false)
	if err != nil {
		return err
	}
	err = quietly(cmd, func() error { return dashboard.MarkComplete(ctx, key, completed) })
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", arg, err)
	}
	if completed {
		cmd.Printf("Marked %s completed.\n", shortKey(key))
	} else {
		cmd.Printf("Cleared completed mark on %s.\n", shortKey(key))
	}
	return nil
}

func runEventsDelete(cmd *cobra.Command, args []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	key, err := resolveKey(ctx, args[0], false)
	if err != nil {
		return err
	}
	err = quietly(cmd, func() error { return dashboard.Delete(ctx, key) })
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", args[0], err)
	}
	cmd.Printf("Deleted %s.\n", shortKey(key))
	return nil
}

func runEventsRestore(cmd *cobra.Command, args []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	key, err := resolveKey(ctx, args[0], true)
	if err != nil {
		return err
	}
	err = quietly(cmd, func() error { return dashboard.Restore(ctx, key) })
	if err != nil {
		return fmt.Errorf("failed to restore %s: %w", args[0], err)
	}
	cmd.Printf("Restored %s.\n", shortKey(key))
	return nil
}

func runEventsDeleted(cmd *cobra.Command, _ []string) error {
	if eventService == nil {
		return errors.New("event service not configured")
	}

	tombstones, err := eventService.Tombstones(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list deleted events: %w", err)
	}
	if len(tombstones) == 0 {
		cmd.Println("No deleted events.")
		return nil
	}

	for _, t := range tombstones {
		name := t.Name
		if name == "" {
			name = "(unnamed)"
		}
		cmd.Printf("%s  %s  %s  deleted %s\n", shortKey(t.Key), name, t.Origin, t.DeletedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runEventsAdd(cmd *cobra.Command, _ []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}

	var added domain.Event
	err := quietly(cmd, func() error {
		var err error
		added, err = dashboard.AddCustom(commandContext(cmd), domain.Event{
			Name:      addName,
			Date:      addDate,
			Time:      addTime,
			Venue:     addVenue,
			Type:      addType,
			Attendees: addAttendees,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	cmd.Printf("Added %q (%s).\n", added.Name, shortKey(added.ID))
	return nil
}

func runEventsSummary(cmd *cobra.Command, _ []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}

	view, err := dashboard.View(commandContext(cmd), time.Now())
	if err != nil {
		return fmt.Errorf("failed to build view: %w", err)
	}

	s := view.Summary
	cmd.Printf("Total:      %d\n", s.Total)
	cmd.Printf("This week:  %d\n", s.ThisWeek)
	cmd.Printf("Completed:  %d\n", s.Completed)
	cmd.Printf("Missed:     %d\n", s.Missed)
	cmd.Printf("Upcoming:   %d\n", s.Upcoming)
	cmd.Printf("Attendees:  %d\n", s.Attendees)
	return nil
}
