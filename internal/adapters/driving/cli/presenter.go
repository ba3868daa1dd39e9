package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.Presenter = (*Relay)(nil)
	_ driven.Presenter = (*TablePresenter)(nil)
)

// Relay forwards presenter calls to a swappable target.
// The dashboard is built once with a Relay; commands choose where output goes.
type Relay struct {
	mu     sync.RWMutex
	target driven.Presenter
}

// NewRelay creates a relay. A nil target discards output.
func NewRelay(target driven.Presenter) *Relay {
	return &Relay{target: target}
}

// SetTarget replaces the target and returns the previous one.
func (r *Relay) SetTarget(target driven.Presenter) driven.Presenter {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.target
	r.target = target
	return prev
}

func (r *Relay) current() driven.Presenter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.target
}

// Render forwards to the target.
func (r *Relay) Render(view domain.EventView) {
	if t := r.current(); t != nil {
		t.Render(view)
	}
}

// Warn forwards to the target.
func (r *Relay) Warn(message string) {
	if t := r.current(); t != nil {
		t.Warn(message)
	}
}

// ShowLoggedIn forwards to the target.
func (r *Relay) ShowLoggedIn(email string) {
	if t := r.current(); t != nil {
		t.ShowLoggedIn(email)
	}
}

// ShowLoggedOut forwards to the target.
func (r *Relay) ShowLoggedOut() {
	if t := r.current(); t != nil {
		t.ShowLoggedOut()
	}
}

// TablePresenter prints the dashboard as a plain-text table.
type TablePresenter struct {
	out    io.Writer
	errOut io.Writer
}

// NewTablePresenter creates a presenter writing views to out and warnings
// to errOut.
func NewTablePresenter(out, errOut io.Writer) *TablePresenter {
	return &TablePresenter{out: out, errOut: errOut}
}

var (
	bold       = color.New(color.Bold).SprintFunc()
	faint      = color.New(color.Faint).SprintFunc()
	warnColour = color.New(color.FgYellow).SprintFunc()
)

// statusColour returns the print function for a status.
func statusColour(s domain.Status) func(a ...interface{}) string {
	switch s {
	case domain.StatusCompleted:
		return color.New(color.FgGreen).SprintFunc()
	case domain.StatusMissed:
		return color.New(color.FgRed).SprintFunc()
	default:
		return color.New(color.FgCyan).SprintFunc()
	}
}

// Render prints the summary line followed by one row per event.
func (p *TablePresenter) Render(view domain.EventView) {
	fmt.Fprintln(p.out, summaryLine(view.Summary))
	if view.Query != "" {
		fmt.Fprintf(p.out, "Matching %q\n", view.Query)
	}
	if len(view.Events) == 0 {
		fmt.Fprintln(p.out, faint("No events."))
		return
	}
	fmt.Fprintln(p.out, eventTable(view.Events))
}

// Warn prints a single warning line.
func (p *TablePresenter) Warn(message string) {
	fmt.Fprintln(p.errOut, warnColour("warning: "+message))
}

// ShowLoggedIn prints the signed-in account.
func (p *TablePresenter) ShowLoggedIn(email string) {
	fmt.Fprintf(p.out, "Signed in as %s\n", bold(email))
}

// ShowLoggedOut prints the signed-out hint.
func (p *TablePresenter) ShowLoggedOut() {
	fmt.Fprintln(p.out, "Signed out. Run 'proemail login' to sign in.")
}

func summaryLine(s domain.Summary) string {
	return fmt.Sprintf("%d events · %d this week · %d completed · %d missed · %d upcoming · %d attendees",
		s.Total, s.ThisWeek, s.Completed, s.Missed, s.Upcoming, s.Attendees)
}

func eventTable(events []domain.ClassifiedEvent) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold("KEY"), bold("STATUS"), bold("DATE"), bold("TIME"),
		bold("NAME"), bold("TYPE"), bold("VENUE"), bold("ATTENDEES"))
	for i := range events {
		ev := &events[i]
		name := ev.Event.Name
		if ev.Event.IsCustom() {
			name += " " + faint("(custom)")
		}
		tbl.AddRow(
			shortKey(ev.Key),
			statusColour(ev.Status)(ev.Status.String()),
			dash(ev.Event.Date),
			dash(ev.Event.Time),
			name,
			dash(ev.Event.Type),
			dash(ev.Event.Venue),
			dash(ev.Event.Attendees),
		)
	}
	return tbl
}

// shortKey trims UUID keys to their first segment for display.
// Commands accept any unique prefix.
func shortKey(key string) string {
	if _, err := uuid.Parse(key); err == nil {
		return key[:8]
	}
	return key
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// quietly runs fn with dashboard renders discarded. Warnings still reach
// the command's error output.
func quietly(cmd *cobra.Command, fn func() error) error {
	prev := presenter.SetTarget(NewTablePresenter(io.Discard, cmd.ErrOrStderr()))
	defer presenter.SetTarget(prev)
	return fn()
}
