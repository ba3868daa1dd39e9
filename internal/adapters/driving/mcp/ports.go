package mcp

import (
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Dashboard performs mutations and fetch cycles.
	Dashboard driving.Dashboard

	// Events builds read-only views and lists deleted events.
	Events driving.EventService

	// Sessions is optional; when set, refresh_events checks sign-in first.
	Sessions driving.SessionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Dashboard == nil {
		return ErrMissingDashboard
	}
	if p.Events == nil {
		return ErrMissingEventService
	}
	return nil
}
