// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateSignedOut State = "signed_out"
	StateReady     State = "ready"
	StateBusy      State = "busy"
	StateWarning   State = "warning"
	StateError     State = "error"
)

// Bar displays session state, the last message and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	email   string
	message string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateSignedOut,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateSignedOut:
		return b.styles.Muted.Render("Signed out")
	case StateBusy:
		if b.message != "" {
			return b.styles.Muted.Render(b.message)
		}
		return b.styles.Muted.Render("Working...")
	case StateWarning:
		return b.styles.Warning.Render(b.message)
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render(fmt.Sprintf("Error: %s", b.message))
		}
		return b.styles.Error.Render("Error")
	case StateReady:
		if b.message != "" {
			return b.styles.Normal.Render(b.message)
		}
	}
	if b.email != "" {
		return b.styles.Normal.Render(b.email)
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	if b.state == StateSignedOut {
		bindings = b.keymap.SignedOutHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		hints = append(hints, hint(binding))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

func hint(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// SetSignedIn records the signed-in account and clears any message.
func (b *Bar) SetSignedIn(email string) {
	b.email = email
	b.state = StateReady
	b.message = ""
}

// SetSignedOut switches to the signed-out state.
func (b *Bar) SetSignedOut() {
	b.email = ""
	b.state = StateSignedOut
	b.message = ""
}

// SetState sets the current state and message.
func (b *Bar) SetState(state State, message string) {
	b.state = state
	b.message = message
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// Email returns the signed-in account, if any.
func (b *Bar) Email() string {
	return b.email
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}
