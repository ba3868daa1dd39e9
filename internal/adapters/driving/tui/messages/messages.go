// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// ViewRendered carries a freshly built event view from the presenter.
type ViewRendered struct {
	View domain.EventView
}

// WarningShown carries a single user-visible warning.
type WarningShown struct {
	Message string
}

// SignedIn is sent when a session becomes active.
type SignedIn struct {
	Email string
}

// SignedOut is sent when the session ends.
type SignedOut struct{}

// ActionCompleted reports the outcome of a dashboard action.
type ActionCompleted struct {
	Action string
	Err    error
}

// RefreshCompleted carries the report of a fetch cycle.
type RefreshCompleted struct {
	Report *domain.CycleReport
	Err    error
}

// EventAdded signals a custom event was created.
type EventAdded struct {
	Event domain.Event
	Err   error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDashboard is the event list with summary and search.
	ViewDashboard ViewType = iota
	// ViewAddEvent is the custom event form.
	ViewAddEvent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewAddEvent:
		return "add_event"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
