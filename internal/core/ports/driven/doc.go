// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Backend: The extraction backend (identity check, unread listing, event extraction)
//   - IdentityProvider: Interactive login, silent refresh and revocation
//   - SessionStore: Session persistence
//   - EventStore: Custom events, completed marks, tombstones and the fetched snapshot
//   - Presenter: The presentation layer (CLI, TUI, MCP)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CalendarSink: Forwards extracted events to a calendar. Nil disables forwarding.
//   - SchedulerStore: Persists scheduler state. Only needed by long-running modes.
//   - EventExporter: Writes a rendered view to a calendar file.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
