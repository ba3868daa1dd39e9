package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// ListEventsInput is the input schema for the list_events tool.
type ListEventsInput struct {
	Status string `json:"status,omitempty" jsonschema:"only return events with this status: upcoming, missed or completed"`
	Query  string `json:"query,omitempty" jsonschema:"case-insensitive text matched against name, venue and type"`
}

// EventOutput is a single event as returned to the assistant.
type EventOutput struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Type      string `json:"type,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Venue     string `json:"venue,omitempty"`
	Attendees string `json:"attendees,omitempty"`
	Origin    string `json:"origin"`
}

// ListEventsOutput is the output schema for the list_events tool.
type ListEventsOutput struct {
	Events []EventOutput `json:"events"`
	Count  int           `json:"count"`
}

// SummaryOutput is the output schema for the summarize_events tool.
type SummaryOutput struct {
	Summary domain.Summary `json:"summary"`
}

// KeyInput addresses one event.
type KeyInput struct {
	Key string `json:"key" jsonschema:"the event key as returned by list_events"`
}

// MarkCompleteInput is the input schema for the mark_complete tool.
type MarkCompleteInput struct {
	Key       string `json:"key" jsonschema:"the event key as returned by list_events"`
	Completed *bool  `json:"completed,omitempty" jsonschema:"false clears the mark (default true)"`
}

// AddEventInput is the input schema for the add_event tool.
type AddEventInput struct {
	Name      string `json:"name" jsonschema:"event title"`
	Date      string `json:"date,omitempty" jsonschema:"date as YYYY-MM-DD"`
	Time      string `json:"time,omitempty" jsonschema:"start time as HH:MM"`
	Venue     string `json:"venue,omitempty" jsonschema:"location"`
	Type      string `json:"type,omitempty" jsonschema:"category such as Meeting or Webinar"`
	Attendees string `json:"attendees,omitempty" jsonschema:"expected attendee count"`
}

// ActionOutput reports the outcome of a mutation.
type ActionOutput struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// RefreshInput is the (empty) input schema for refresh_events.
type RefreshInput struct{}

// RefreshOutput is the output schema for refresh_events.
type RefreshOutput struct {
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Events    int    `json:"events"`
	Warning   string `json:"warning,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_events",
		Description: "List events extracted from unread mail plus custom events, with their status",
	}, s.handleListEvents)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_events",
		Description: "Count events by status, this week's events and total attendees",
	}, s.handleSummarize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mark_complete",
		Description: "Mark an event as completed, or clear the mark",
	}, s.handleMarkComplete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_event",
		Description: "Hide an event; it stays hidden across fetches until restored",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "restore_event",
		Description: "Un-hide a previously deleted event",
	}, s.handleRestore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_event",
		Description: "Create a custom event",
	}, s.handleAddEvent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refresh_events",
		Description: "Fetch unread mail and extract new events (requires a signed-in session)",
	}, s.handleRefresh)
}

// buildView reconciles and classifies the cached snapshot.
func (s *Server) buildView(ctx context.Context, query string) (*domain.EventView, error) {
	snapshot, err := s.ports.Events.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	return s.ports.Events.BuildView(ctx, snapshot, s.now(), query)
}

func (s *Server) handleListEvents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListEventsInput,
) (*mcp.CallToolResult, ListEventsOutput, error) {
	var want domain.Status
	if input.Status != "" {
		want = domain.Status(input.Status)
		if !want.IsValid() {
			return nil, ListEventsOutput{}, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, input.Status)
		}
	}

	view, err := s.buildView(ctx, input.Query)
	if err != nil {
		return nil, ListEventsOutput{}, err
	}

	events := view.Events
	if want != "" {
		events = view.Filter(want)
	}

	output := ListEventsOutput{
		Events: make([]EventOutput, len(events)),
		Count:  len(events),
	}
	for i := range events {
		output.Events[i] = toOutput(&events[i])
	}
	return nil, output, nil
}

func toOutput(ce *domain.ClassifiedEvent) EventOutput {
	return EventOutput{
		Key:       ce.Key,
		Name:      ce.Event.Name,
		Status:    ce.Status.String(),
		Type:      ce.Event.Type,
		Date:      ce.Event.Date,
		Time:      ce.Event.Time,
		Venue:     ce.Event.Venue,
		Attendees: ce.Event.Attendees,
		Origin:    string(ce.Event.Origin),
	}
}

func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	view, err := s.buildView(ctx, "")
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, SummaryOutput{Summary: view.Summary}, nil
}

func (s *Server) handleMarkComplete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MarkCompleteInput,
) (*mcp.CallToolResult, ActionOutput, error) {
	completed := input.Completed == nil || *input.Completed
	if err := s.ports.Dashboard.MarkComplete(ctx, input.Key, completed); err != nil {
		return nil, ActionOutput{}, err
	}
	msg := "marked completed"
	if !completed {
		msg = "completed mark cleared"
	}
	return nil, ActionOutput{Key: input.Key, Message: msg}, nil
}

func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input KeyInput,
) (*mcp.CallToolResult, ActionOutput, error) {
	if err := s.ports.Dashboard.Delete(ctx, input.Key); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{Key: input.Key, Message: "deleted"}, nil
}

func (s *Server) handleRestore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input KeyInput,
) (*mcp.CallToolResult, ActionOutput, error) {
	if err := s.ports.Dashboard.Restore(ctx, input.Key); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{Key: input.Key, Message: "restored"}, nil
}

func (s *Server) handleAddEvent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddEventInput,
) (*mcp.CallToolResult, EventOutput, error) {
	added, err := s.ports.Dashboard.AddCustom(ctx, domain.Event{
		Name:      input.Name,
		Date:      input.Date,
		Time:      input.Time,
		Venue:     input.Venue,
		Type:      input.Type,
		Attendees: input.Attendees,
	})
	if err != nil {
		return nil, EventOutput{}, err
	}
	ce := domain.ClassifiedEvent{
		Event:  added,
		Key:    s.ports.Events.Key(&added),
		Status: domain.Classify(&added, false, s.now()),
	}
	return nil, toOutput(&ce), nil
}

func (s *Server) handleRefresh(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshInput,
) (*mcp.CallToolResult, RefreshOutput, error) {
	if s.ports.Sessions != nil && !s.ports.Sessions.IsLoggedIn() {
		return nil, RefreshOutput{}, fmt.Errorf("%w: run 'proemail login' first", domain.ErrAuthRequired)
	}
	report, err := s.ports.Dashboard.Refresh(ctx)
	if err != nil {
		return nil, RefreshOutput{}, err
	}
	if report == nil {
		return nil, RefreshOutput{}, nil
	}
	return nil, RefreshOutput{
		Processed: report.Processed,
		Failed:    report.Failed,
		Events:    len(report.Events),
		Warning:   report.Warning,
	}, nil
}
