// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// EventList displays classified events in a navigable list.
type EventList struct {
	events   []domain.ClassifiedEvent
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewEventList creates a new event list component.
func NewEventList(s *styles.Styles) *EventList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &EventList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the event list.
func (l *EventList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *EventList) Update(msg tea.Msg) (*EventList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the event list.
func (l *EventList) View() string {
	if len(l.events) == 0 {
		return l.styles.Muted.Render("No events")
	}

	// Each event takes two lines.
	visible := (l.height - 2) / 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.events) {
		end = len(l.events)
	}

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderEvent(i, &l.events[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *EventList) renderEvent(index int, ce *domain.ClassifiedEvent) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	badge := fmt.Sprintf("%-9s", ce.Status)
	name := ce.Event.Name
	maxName := l.width - 16
	if maxName < 10 {
		maxName = 10
	}
	if len(name) > maxName {
		name = name[:maxName-3] + "..."
	}

	var title string
	if index == l.selected {
		title = l.styles.Selected.Render(indicator+name) + "  " + l.styles.ForStatus(ce.Status).Render(badge)
	} else {
		title = l.styles.Normal.Render(indicator+name) + "  " + l.styles.ForStatus(ce.Status).Render(badge)
	}

	return title + "\n" + l.styles.Muted.Render("    "+details(&ce.Event))
}

// details joins the secondary fields that are present.
func details(e *domain.Event) string {
	parts := make([]string, 0, 5)
	when := strings.TrimSpace(e.Date + " " + e.Time)
	if when != "" {
		parts = append(parts, when)
	}
	if e.Venue != "" {
		parts = append(parts, e.Venue)
	}
	if e.Type != "" {
		parts = append(parts, e.Type)
	}
	if e.Attendees != "" {
		parts = append(parts, e.Attendees+" attending")
	}
	if e.IsCustom() {
		parts = append(parts, "custom")
	}
	if len(parts) == 0 {
		return "no details"
	}
	return strings.Join(parts, " · ")
}

// SetEvents replaces the list. The selection is kept when still in range.
func (l *EventList) SetEvents(events []domain.ClassifiedEvent) {
	l.events = events
	if l.selected >= len(events) {
		l.selected = len(events) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Events returns the current events.
func (l *EventList) Events() []domain.ClassifiedEvent {
	return l.events
}

// Selected returns the index of the selected event.
func (l *EventList) Selected() int {
	return l.selected
}

// SelectedEvent returns the currently selected event, or nil if none.
func (l *EventList) SelectedEvent() *domain.ClassifiedEvent {
	if len(l.events) == 0 || l.selected < 0 || l.selected >= len(l.events) {
		return nil
	}
	return &l.events[l.selected]
}

// MoveUp moves selection up.
func (l *EventList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *EventList) MoveDown() {
	if l.selected < len(l.events)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *EventList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of events.
func (l *EventList) Count() int {
	return len(l.events)
}
