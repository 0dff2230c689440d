package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/world"
)

// WorldStatusInput represents the MCP tool input for the world status panel.
type WorldStatusInput struct {
	Locale string `json:"locale,omitempty" jsonschema:"BCP 47 locale for the era name (defaults to context locale)"`
}

// WorldStatusResult represents the MCP tool output for the world status panel.
type WorldStatusResult struct {
	State      string `json:"state" jsonschema:"canonical era identifier"`
	EraName    string `json:"era_name" jsonschema:"localized era name"`
	Entropy    uint32 `json:"entropy" jsonschema:"entropy level from 0 to 100"`
	Finalized  bool   `json:"finalized" jsonschema:"true once the world is sealed"`
	EventCount uint64 `json:"event_count" jsonschema:"journal length"`
}

// WorldStatusTool defines the MCP tool schema for the world status panel.
func WorldStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "world_status",
		Description: "Returns the global world status: era, entropy level, finalized flag, and journal length.",
	}
}

// WorldStatusHandler executes a world status request.
func WorldStatusHandler(world Chronicle, getContext func() Context) mcp.ToolHandlerFor[WorldStatusInput, WorldStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WorldStatusInput) (*mcp.CallToolResult, WorldStatusResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		status, err := world.WorldStatus(runCtx, resolveLocale(input.Locale, getContext))
		if err != nil {
			return nil, WorldStatusResult{}, toolError("world status", err, resolveLocale(input.Locale, getContext))
		}
		return nil, worldStatusResult(status.State.String(), status.EraName, status.Entropy, status.Finalized, status.EventCount), nil
	}
}

func worldStatusResult(state, eraName string, entropy uint32, finalized bool, eventCount uint64) WorldStatusResult {
	return WorldStatusResult{
		State:      state,
		EraName:    eraName,
		Entropy:    entropy,
		Finalized:  finalized,
		EventCount: eventCount,
	}
}

// WorldAdvanceInput represents the MCP tool input for advancing the global
// era.
type WorldAdvanceInput struct {
	State string `json:"state" jsonschema:"target era, exactly one step past the current one"`
	Grant string `json:"grant,omitempty" jsonschema:"governor grant token (defaults to context grant)"`
}

// WorldAdvanceResult represents the MCP tool output for advancing the era.
type WorldAdvanceResult struct {
	State   string `json:"state" jsonschema:"era after the advance"`
	Entropy uint32 `json:"entropy" jsonschema:"entropy level after the advance"`
}

// WorldAdvanceTool defines the MCP tool schema for advancing the era.
func WorldAdvanceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "world_advance",
		Description: "Advances the global era exactly one step forward. Requires a governor grant when grant checking is configured.",
	}
}

// WorldAdvanceHandler executes a world advance request.
func WorldAdvanceHandler(chronicle Chronicle, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[WorldAdvanceInput, WorldAdvanceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WorldAdvanceInput) (*mcp.CallToolResult, WorldAdvanceResult, error) {
		next, err := parseWorldState(input.State)
		if err != nil {
			return nil, WorldAdvanceResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := chronicle.AdvanceWorldState(runCtx, next, resolveGrant(input.Grant, getContext)); err != nil {
			return nil, WorldAdvanceResult{}, toolError("world advance", err, resolveLocale("", getContext))
		}
		NotifyResourceUpdates(ctx, notify, WorldStatusResource().URI)
		return nil, WorldAdvanceResult{State: next.String(), Entropy: next.Entropy()}, nil
	}
}

// WorldFinalizeInput represents the MCP tool input for sealing the world.
type WorldFinalizeInput struct {
	Grant string `json:"grant,omitempty" jsonschema:"governor grant token (defaults to context grant)"`
}

// WorldFinalizeResult represents the MCP tool output for sealing the world.
type WorldFinalizeResult struct {
	Finalized bool `json:"finalized" jsonschema:"always true after the call"`
}

// WorldFinalizeTool defines the MCP tool schema for sealing the world.
func WorldFinalizeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "world_finalize",
		Description: "Seals the world permanently. Idempotent. Requires a governor grant when grant checking is configured.",
	}
}

// WorldFinalizeHandler executes a world finalize request.
func WorldFinalizeHandler(chronicle Chronicle, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[WorldFinalizeInput, WorldFinalizeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WorldFinalizeInput) (*mcp.CallToolResult, WorldFinalizeResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := chronicle.FinalizeWorld(runCtx, resolveGrant(input.Grant, getContext)); err != nil {
			return nil, WorldFinalizeResult{}, toolError("world finalize", err, resolveLocale("", getContext))
		}
		NotifyResourceUpdates(ctx, notify, WorldStatusResource().URI)
		return nil, WorldFinalizeResult{Finalized: true}, nil
	}
}

// EventGetInput represents the MCP tool input for reading one journal event.
type EventGetInput struct {
	EventID uint64 `json:"event_id" jsonschema:"0-based journal event identifier"`
}

// EventEntry is the tool-facing rendering of a journal event.
type EventEntry struct {
	EventID        uint64            `json:"event_id" jsonschema:"0-based journal event identifier"`
	Type           string            `json:"type" jsonschema:"event kind"`
	Actor          string            `json:"actor" jsonschema:"acting account"`
	ContentHash    string            `json:"content_hash,omitempty" jsonschema:"hex payload fingerprint"`
	Metadata       map[string]string `json:"metadata,omitempty" jsonschema:"event metadata"`
	Timestamp      string            `json:"timestamp" jsonschema:"RFC3339 timestamp of the append"`
	SequenceMarker uint64            `json:"sequence_marker" jsonschema:"external ordering token"`
}

// EventGetResult represents the MCP tool output for reading one event.
type EventGetResult struct {
	Event EventEntry `json:"event" jsonschema:"the journal event"`
}

// EventGetTool defines the MCP tool schema for reading one event.
func EventGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_get",
		Description: "Reads a single journal event by id.",
	}
}

// EventGetHandler executes an event read request.
func EventGetHandler(world Chronicle) mcp.ToolHandlerFor[EventGetInput, EventGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventGetInput) (*mcp.CallToolResult, EventGetResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		evt, err := world.GetEvent(runCtx, input.EventID)
		if err != nil {
			return nil, EventGetResult{}, toolError("event get", err, "")
		}
		entry, err := eventEntry(evt)
		if err != nil {
			return nil, EventGetResult{}, err
		}
		return nil, EventGetResult{Event: entry}, nil
	}
}

// EventListInput represents the MCP tool input for scanning the journal.
type EventListInput struct {
	Start uint64 `json:"start,omitempty" jsonschema:"first event id to return"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum events to return (default 50, max 200)"`
}

// EventListResult represents the MCP tool output for scanning the journal.
type EventListResult struct {
	Events []EventEntry `json:"events" jsonschema:"events in id order"`
	Next   uint64       `json:"next,omitempty" jsonschema:"start value that resumes the scan"`
}

// EventListTool defines the MCP tool schema for scanning the journal.
func EventListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_list",
		Description: "Scans the journal in id order. Pass the returned next value to resume.",
	}
}

// EventListHandler executes an event scan request.
func EventListHandler(world Chronicle) mcp.ToolHandlerFor[EventListInput, EventListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventListInput) (*mcp.CallToolResult, EventListResult, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		events, err := world.ListEvents(runCtx, input.Start, limit)
		if err != nil {
			return nil, EventListResult{}, toolError("event list", err, "")
		}

		result := EventListResult{}
		for _, evt := range events {
			entry, err := eventEntry(evt)
			if err != nil {
				return nil, EventListResult{}, err
			}
			result.Events = append(result.Events, entry)
		}
		if len(events) == limit {
			result.Next = events[len(events)-1].ID + 1
		}
		return nil, result, nil
	}
}

func eventEntry(evt event.Event) (EventEntry, error) {
	meta, err := event.DecodeMetadata(evt.Metadata)
	if err != nil {
		return EventEntry{}, fmt.Errorf("decode metadata of event %d: %w", evt.ID, err)
	}
	return EventEntry{
		EventID:        evt.ID,
		Type:           string(evt.Type),
		Actor:          evt.Actor,
		ContentHash:    evt.ContentHash,
		Metadata:       meta,
		Timestamp:      formatTimestamp(evt.Timestamp),
		SequenceMarker: evt.SequenceMarker,
	}, nil
}

// parseWorldState maps a canonical era identifier from tool input.
func parseWorldState(raw string) (world.State, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for s := world.StateGenesis; s <= world.Terminal; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("state %q is not on the era ladder", raw)
}

// resolveGrant picks the explicit grant or falls back to the context.
func resolveGrant(explicit string, getContext func() Context) string {
	grant := strings.TrimSpace(explicit)
	if grant == "" && getContext != nil {
		grant = strings.TrimSpace(getContext().Grant)
	}
	return grant
}

// WorldStatusResource defines the readable world status resource.
func WorldStatusResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "world://status",
		Name:        "world-status",
		Description: "Global world status: era, entropy level, finalized flag, and journal length.",
		MIMEType:    "application/json",
	}
}

// WorldStatusResourceHandler returns the readable world status resource.
func WorldStatusResourceHandler(chronicle Chronicle, getContext func() Context) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		status, err := chronicle.WorldStatus(runCtx, resolveLocale("", getContext))
		if err != nil {
			return nil, fmt.Errorf("world status failed: %w", err)
		}
		data, err := json.MarshalIndent(worldStatusResult(status.State.String(), status.EraName, status.Entropy, status.Finalized, status.EventCount), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal world status: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      WorldStatusResource().URI,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
