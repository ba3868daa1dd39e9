// Package tui provides an interactive terminal user interface for proemail.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Dashboard handles every user action and re-renders through the presenter.
	Dashboard driving.Dashboard

	// Sessions reports whether a user is signed in.
	Sessions driving.SessionService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(dashboard driving.Dashboard, sessions driving.SessionService) *Ports {
	return &Ports{
		Dashboard: dashboard,
		Sessions:  sessions,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Dashboard == nil {
		return ErrMissingDashboard
	}
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
