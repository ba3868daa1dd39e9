// Package events provides the main dashboard view for the TUI: summary
// counters, a status filter, search and the event list.
package events

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

// filters is the tab order of the status filter. The empty status shows all.
var filters = []domain.Status{"", domain.StatusUpcoming, domain.StatusMissed, domain.StatusCompleted}

// View is the dashboard view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	list      *list.EventList
	statusbar *status.Bar

	dashboard driving.Dashboard
	ctx       context.Context

	current   domain.EventView
	filter    int
	signedIn  bool
	searching bool
	width     int
	height    int
	ready     bool
}

// NewView creates the dashboard view.
func NewView(s *styles.Styles, km *keymap.KeyMap, dashboard driving.Dashboard) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewSearchInput(s),
		list:      list.NewEventList(s),
		statusbar: status.NewBar(s, km),
		dashboard: dashboard,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for dashboard calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the dashboard view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ViewRendered:
		v.current = msg.View
		v.applyFilter()
		return v, nil

	case messages.SignedIn:
		v.signedIn = true
		v.statusbar.SetSignedIn(msg.Email)
		return v, nil

	case messages.SignedOut:
		v.signedIn = false
		v.statusbar.SetSignedOut()
		return v, nil

	case messages.WarningShown:
		v.statusbar.SetState(status.StateWarning, msg.Message)
		return v, nil

	case messages.ActionCompleted:
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError, msg.Err.Error())
		} else if v.signedIn && v.statusbar.State() == status.StateBusy {
			v.statusbar.SetState(status.StateReady, "")
		}
		return v, nil

	case messages.RefreshCompleted:
		v.handleRefreshCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError, msg.Err.Error())
		return v, nil

	case tea.KeyMsg:
		if v.searching {
			return v.handleSearchKey(msg)
		}
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleRefreshCompleted(msg messages.RefreshCompleted) {
	switch {
	case msg.Err != nil:
		v.statusbar.SetState(status.StateError, msg.Err.Error())
	case msg.Report != nil && msg.Report.Warning != "":
		v.statusbar.SetState(status.StateWarning, msg.Report.Warning)
	case msg.Report != nil:
		v.statusbar.SetState(status.StateReady, fmt.Sprintf(
			"%d event(s) from %d message(s)", len(msg.Report.Events), msg.Report.Processed))
	}
}

func (v *View) handleSearchKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.searching = false
		v.input.Reset()
		v.input.Blur()
		return v, v.search("")
	case "enter":
		v.searching = false
		v.input.Blur()
		return v, v.search(v.input.Value())
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

//nolint:gocyclo // key dispatch
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Quit):
		return v, tea.Quit

	case keymap.Matches(k, v.keymap.Help):
		return v, changeView(messages.ViewHelp)

	case keymap.Matches(k, v.keymap.Search):
		v.searching = true
		return v, v.input.Focus()

	case keymap.Matches(k, v.keymap.Back):
		if v.current.Query != "" {
			v.input.Reset()
			return v, v.search("")
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Filter):
		v.filter = (v.filter + 1) % len(filters)
		v.applyFilter()
		return v, nil

	case keymap.Matches(k, v.keymap.Login):
		if v.signedIn {
			return v, nil
		}
		v.statusbar.SetState(status.StateBusy, "Waiting for sign-in in your browser...")
		return v, v.run("login", v.dashboard.Login)

	case keymap.Matches(k, v.keymap.Logout):
		if !v.signedIn {
			return v, nil
		}
		return v, v.run("logout", v.dashboard.Logout)

	case keymap.Matches(k, v.keymap.Add):
		return v, changeView(messages.ViewAddEvent)
	}

	if !v.signedIn {
		switch {
		case keymap.Matches(k, v.keymap.Refresh),
			keymap.Matches(k, v.keymap.Toggle),
			keymap.Matches(k, v.keymap.Delete):
			v.statusbar.SetState(status.StateWarning, "Sign in first (L)")
			return v, nil
		}
	}

	switch {
	case keymap.Matches(k, v.keymap.Refresh):
		v.statusbar.SetState(status.StateBusy, "Fetching mail...")
		return v, v.refresh()

	case keymap.Matches(k, v.keymap.Toggle):
		sel := v.list.SelectedEvent()
		if sel == nil {
			return v, nil
		}
		key, completed := sel.Key, sel.Status != domain.StatusCompleted
		return v, v.run("mark", func(ctx context.Context) error {
			return v.dashboard.MarkComplete(ctx, key, completed)
		})

	case keymap.Matches(k, v.keymap.Delete):
		sel := v.list.SelectedEvent()
		if sel == nil {
			return v, nil
		}
		key := sel.Key
		return v, v.run("delete", func(ctx context.Context) error {
			return v.dashboard.Delete(ctx, key)
		})
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// run calls fn off the update loop. The dashboard re-renders through the
// presenter, so only the outcome is reported back.
func (v *View) run(action string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		return messages.ActionCompleted{Action: action, Err: fn(ctx)}
	}
}

func (v *View) refresh() tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		report, err := v.dashboard.Refresh(ctx)
		return messages.RefreshCompleted{Report: report, Err: err}
	}
}

func (v *View) search(text string) tea.Cmd {
	return v.run("search", func(ctx context.Context) error {
		return v.dashboard.Search(ctx, text)
	})
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

func (v *View) applyFilter() {
	want := filters[v.filter]
	if want == "" {
		v.list.SetEvents(v.current.Events)
		return
	}
	v.list.SetEvents(v.current.Filter(want))
}

// View renders the dashboard.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("proemail"))
	b.WriteString("\n\n")
	b.WriteString(v.renderSummary())
	b.WriteString("\n")
	b.WriteString(v.renderFilters())
	b.WriteString("\n")
	if v.searching || v.current.Query != "" {
		b.WriteString(v.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	listHeight := v.height - 14
	if listHeight < 4 {
		listHeight = 4
	}
	v.list.SetDimensions(v.width, listHeight)
	if !v.signedIn && len(v.current.Events) == 0 {
		b.WriteString(v.styles.Muted.Render("Press L to sign in with Google."))
	} else {
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderSummary() string {
	s := v.current.Summary
	cards := []string{
		v.card("Total", s.Total, v.styles.Normal),
		v.card("This week", s.ThisWeek, v.styles.Normal),
		v.card("Upcoming", s.Upcoming, v.styles.Upcoming),
		v.card("Missed", s.Missed, v.styles.Missed),
		v.card("Completed", s.Completed, v.styles.Completed),
		v.card("Attendees", s.Attendees, v.styles.Normal),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (v *View) card(label string, n int, style lipgloss.Style) string {
	return v.styles.Card.Render(style.Render(fmt.Sprintf("%d", n)) + "\n" + v.styles.Muted.Render(label))
}

func (v *View) renderFilters() string {
	tabs := make([]string, 0, len(filters))
	for i, f := range filters {
		label := "all"
		if f != "" {
			label = f.String()
		}
		if i == v.filter {
			tabs = append(tabs, v.styles.Selected.Render(" "+label+" "))
		} else {
			tabs = append(tabs, v.styles.Muted.Render(" "+label+" "))
		}
	}
	return strings.Join(tabs, " ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width / 2)
	v.statusbar.SetWidth(width)
}

// Filter returns the active status filter; empty means all.
func (v *View) Filter() domain.Status {
	return filters[v.filter]
}

// Searching returns true while the search input has focus.
func (v *View) Searching() bool {
	return v.searching
}

// SignedIn returns true after a SignedIn message.
func (v *View) SignedIn() bool {
	return v.signedIn
}

// Visible returns the events currently listed.
func (v *View) Visible() []domain.ClassifiedEvent {
	return v.list.Events()
}

// StatusBar exposes the status bar for inspection.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}
