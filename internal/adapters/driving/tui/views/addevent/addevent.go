// Package addevent provides the custom event form for the TUI.
package addevent

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

// Field indexes.
const (
	fieldName = iota
	fieldDate
	fieldTime
	fieldVenue
	fieldType
	fieldAttendees
	fieldCount
)

// View is the add event form.
type View struct {
	styles    *styles.Styles
	dashboard driving.Dashboard
	ctx       context.Context

	fields  []*input.Field
	focused int
	err     error
	saving  bool
	width   int
	height  int
}

// NewView creates the form.
func NewView(s *styles.Styles, dashboard driving.Dashboard) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	fields := make([]*input.Field, fieldCount)
	fields[fieldName] = input.NewField(s, "Name:      ", "Team sync")
	fields[fieldDate] = input.NewField(s, "Date:      ", "YYYY-MM-DD")
	fields[fieldTime] = input.NewField(s, "Time:      ", "HH:MM")
	fields[fieldVenue] = input.NewField(s, "Venue:     ", "Room 4")
	fields[fieldType] = input.NewField(s, "Type:      ", "Meeting")
	fields[fieldAttendees] = input.NewField(s, "Attendees: ", "12")

	v := &View{
		styles:    s,
		dashboard: dashboard,
		ctx:       context.Background(),
		fields:    fields,
		width:     80,
		height:    24,
	}
	v.Reset()
	return v
}

// WithContext sets the context used for the dashboard call.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the first field.
func (v *View) Init() tea.Cmd {
	return v.fields[v.focused].Focus()
}

// Reset clears the form.
func (v *View) Reset() {
	for _, f := range v.fields {
		f.Reset()
		f.Blur()
	}
	v.focused = fieldName
	v.err = nil
	v.saving = false
}

// Update handles messages for the form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.EventAdded:
		v.saving = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.Reset()
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDashboard} }

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.Reset()
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDashboard} }
	case "tab", "down":
		return v, v.focus((v.focused + 1) % fieldCount)
	case "shift+tab", "up":
		return v, v.focus((v.focused + fieldCount - 1) % fieldCount)
	case "enter":
		if v.focused < fieldCount-1 {
			return v, v.focus(v.focused + 1)
		}
		return v, v.submit()
	case "ctrl+s":
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.fields[v.focused], cmd = v.fields[v.focused].Update(msg)
	return v, cmd
}

func (v *View) focus(index int) tea.Cmd {
	v.fields[v.focused].Blur()
	v.focused = index
	return v.fields[index].Focus()
}

// Event builds the event from the form values.
func (v *View) Event() domain.Event {
	value := func(i int) string { return strings.TrimSpace(v.fields[i].Value()) }
	return domain.Event{
		Name:      value(fieldName),
		Date:      value(fieldDate),
		Time:      value(fieldTime),
		Venue:     value(fieldVenue),
		Type:      value(fieldType),
		Attendees: value(fieldAttendees),
	}
}

func (v *View) submit() tea.Cmd {
	if v.saving {
		return nil
	}
	event := v.Event()
	if event.Name == "" {
		v.err = errors.New("name is required")
		return v.focus(fieldName)
	}
	v.err = nil
	v.saving = true
	ctx := v.ctx
	return func() tea.Msg {
		added, err := v.dashboard.AddCustom(ctx, event)
		return messages.EventAdded{Event: added, Err: err}
	}
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Add event"))
	b.WriteString("\n\n")
	for _, f := range v.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case v.saving:
		b.WriteString(v.styles.Muted.Render("Saving..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[tab] next  [enter] next/save  [ctrl+s] save  [esc] cancel"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	for _, f := range v.fields {
		f.SetWidth(width / 2)
	}
}

// Focused returns the index of the focused field.
func (v *View) Focused() int {
	return v.focused
}

// Err returns the last validation or save error.
func (v *View) Err() error {
	return v.err
}
