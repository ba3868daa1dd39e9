package tui

import "errors"

// ErrMissingDashboard is returned when the dashboard is not provided.
var ErrMissingDashboard = errors.New("tui: dashboard is required")

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("tui: session service is required")
