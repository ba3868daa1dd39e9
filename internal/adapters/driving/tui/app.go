package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/views/addevent"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/views/events"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	eventsView *events.View
	addView    *addevent.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		help:        help.New(),
		eventsView:  events.NewView(s, km, ports.Dashboard),
		addView:     addevent.NewView(s, ports.Dashboard),
		currentView: messages.ViewDashboard,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.eventsView.WithContext(ctx)
	a.addView.WithContext(ctx)
	return a
}

// Init implements tea.Model. It starts the dashboard, which restores a
// cached session and renders through the presenter.
func (a *App) Init() tea.Cmd {
	ctx := a.ctx
	dashboard := a.ports.Dashboard
	return tea.Batch(
		tea.SetWindowTitle("proemail"),
		func() tea.Msg {
			return messages.ActionCompleted{Action: "start", Err: dashboard.Start(ctx)}
		},
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewAddEvent:
			a.addView, cmd = a.addView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Help) {
				a.currentView = messages.ViewDashboard
			} else if keymap.Matches(msg.String(), a.keymap.Quit) {
				return a, tea.Quit
			}
		default:
			a.eventsView, cmd = a.eventsView.Update(msg)
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewAddEvent {
			a.addView.Reset()
			return a, a.addView.Init()
		}
		return a, nil

	case messages.EventAdded:
		a.addView, cmd = a.addView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.ActionCompleted:
		if msg.Err != nil {
			a.err = msg.Err
		}

	case messages.Quit:
		return a, tea.Quit
	}

	// Presenter and action messages always go to the dashboard view so it
	// stays current while another view is shown.
	a.eventsView, cmd = a.eventsView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAddEvent:
		return a.addView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.eventsView.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("Events are keyed by id; deleted events stay hidden until restored from the CLI."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.eventsView.SetDimensions(width, height)
	a.addView.SetDimensions(width, height)
}

// EventsView exposes the dashboard view for inspection.
func (a *App) EventsView() *events.View {
	return a.eventsView
}
