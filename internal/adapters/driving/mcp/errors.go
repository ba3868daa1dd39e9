// Package mcp provides an MCP (Model Context Protocol) server adapter for proemail.
// It lets AI assistants read the event dashboard and act on events.
package mcp

import "errors"

// ErrMissingDashboard is returned when the dashboard is not provided.
var ErrMissingDashboard = errors.New("mcp: dashboard is required")

// ErrMissingEventService is returned when the event service is not provided.
var ErrMissingEventService = errors.New("mcp: event service is required")
