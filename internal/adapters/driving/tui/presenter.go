package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
)

// Ensure Presenter implements the interface.
var _ driven.Presenter = (*Presenter)(nil)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Presenter turns presenter calls into Bubbletea messages.
// Program.Send is safe from any goroutine and is a no-op once the program exits.
type Presenter struct {
	program Sender
}

// NewPresenter creates a presenter that sends to program.
func NewPresenter(program Sender) *Presenter {
	return &Presenter{program: program}
}

// Render sends the new view.
func (p *Presenter) Render(view domain.EventView) {
	p.program.Send(messages.ViewRendered{View: view})
}

// Warn sends a user-visible warning.
func (p *Presenter) Warn(message string) {
	p.program.Send(messages.WarningShown{Message: message})
}

// ShowLoggedIn sends the signed-in state.
func (p *Presenter) ShowLoggedIn(email string) {
	p.program.Send(messages.SignedIn{Email: email})
}

// ShowLoggedOut sends the signed-out state and an empty view.
func (p *Presenter) ShowLoggedOut() {
	p.program.Send(messages.SignedOut{})
}
