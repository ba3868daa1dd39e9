package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for proemail resources.
	uriScheme = "proemail://"

	summaryURI = uriScheme + "events/summary"
	eventsURI  = uriScheme + "events"
	deletedURI = uriScheme + "events/deleted"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "events-summary",
		Description: "Dashboard counters: total, this week, completed, missed, upcoming, attendees",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         eventsURI,
		Name:        "events",
		Description: "Every visible event with its status",
		MIMEType:    "application/json",
	}, s.handleEventsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         deletedURI,
		Name:        "deleted-events",
		Description: "Events hidden by delete_event",
		MIMEType:    "application/json",
	}, s.handleDeletedResource)
}

func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	view, err := s.buildView(ctx, "")
	if err != nil {
		return nil, err
	}
	return jsonResult(req.Params.URI, view.Summary)
}

func (s *Server) handleEventsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	view, err := s.buildView(ctx, "")
	if err != nil {
		return nil, err
	}
	events := make([]EventOutput, len(view.Events))
	for i := range view.Events {
		events[i] = toOutput(&view.Events[i])
	}
	return jsonResult(req.Params.URI, events)
}

func (s *Server) handleDeletedResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tombstones, err := s.ports.Events.Tombstones(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing deleted events: %w", err)
	}

	type deletedInfo struct {
		Key       string `json:"key"`
		Name      string `json:"name"`
		Origin    string `json:"origin"`
		DeletedAt string `json:"deleted_at"`
	}

	infos := make([]deletedInfo, len(tombstones))
	for i := range tombstones {
		infos[i] = deletedInfo{
			Key:       tombstones[i].Key,
			Name:      tombstones[i].Name,
			Origin:    string(tombstones[i].Origin),
			DeletedAt: tombstones[i].DeletedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
