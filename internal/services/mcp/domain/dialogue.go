package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/dialogue"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/npc"
)

// NPCListInput represents the MCP tool input for listing NPCs.
type NPCListInput struct {
	Locale string `json:"locale,omitempty" jsonschema:"BCP 47 locale for display names (defaults to context locale)"`
}

// NPCListEntry is one NPC in the listing.
type NPCListEntry struct {
	Archetype        string `json:"archetype" jsonschema:"stable NPC identifier"`
	Name             string `json:"name" jsonschema:"localized display name"`
	Description      string `json:"description" jsonschema:"role description"`
	Active           bool   `json:"active" jsonschema:"whether the NPC accepts interactions"`
	Degradation      uint32 `json:"degradation" jsonschema:"degradation level, saturating at 100"`
	InteractionCount uint64 `json:"interaction_count" jsonschema:"lifetime interaction count"`
}

// NPCListResult represents the MCP tool output for listing NPCs.
type NPCListResult struct {
	NPCs []NPCListEntry `json:"npcs" jsonschema:"the cast in canonical order"`
}

// NPCListTool defines the MCP tool schema for listing NPCs.
func NPCListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "npc_list",
		Description: "Lists the NPC cast with localized names, activity flags, and degradation levels.",
	}
}

// NPCListHandler executes an NPC list request.
func NPCListHandler(world Chronicle, getContext func() Context) mcp.ToolHandlerFor[NPCListInput, NPCListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input NPCListInput) (*mcp.CallToolResult, NPCListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		result := NPCListResult{}
		for _, view := range world.NPCList(runCtx, resolveLocale(input.Locale, getContext)) {
			result.NPCs = append(result.NPCs, NPCListEntry{
				Archetype:        string(view.Archetype),
				Name:             view.Name,
				Description:      view.Description,
				Active:           view.Active,
				Degradation:      view.Degradation,
				InteractionCount: view.InteractionCount,
			})
		}
		return nil, result, nil
	}
}

// DialogueInteractInput represents the MCP tool input for opening a dialogue
// exchange.
type DialogueInteractInput struct {
	NPC      string `json:"npc" jsonschema:"NPC archetype identifier"`
	Question string `json:"question" jsonschema:"question text; only its hash enters the journal"`
	Account  string `json:"account,omitempty" jsonschema:"inquirer account (defaults to context account)"`
}

// DialogueInteractResult represents the MCP tool output for opening an
// exchange.
type DialogueInteractResult struct {
	RequestID    string `json:"request_id" jsonschema:"correlation key for the later dialogue_store call"`
	QuestionHash string `json:"question_hash" jsonschema:"hex hash journaled for the question"`
}

// DialogueInteractTool defines the MCP tool schema for opening an exchange.
func DialogueInteractTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "dialogue_interact",
		Description: "Opens a dialogue exchange with an NPC and returns the request id. Generate the response externally, then settle it with dialogue_store.",
	}
}

// DialogueInteractHandler executes a dialogue interaction request.
func DialogueInteractHandler(world Chronicle, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[DialogueInteractInput, DialogueInteractResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DialogueInteractInput) (*mcp.CallToolResult, DialogueInteractResult, error) {
		archetype, err := parseArchetype(input.NPC)
		if err != nil {
			return nil, DialogueInteractResult{}, err
		}
		account, err := resolveAccount(input.Account, getContext)
		if err != nil {
			return nil, DialogueInteractResult{}, err
		}
		if strings.TrimSpace(input.Question) == "" {
			return nil, DialogueInteractResult{}, fmt.Errorf("question is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		hash := dialogue.HashText(input.Question)
		requestID, err := world.Interact(runCtx, archetype, account, hash)
		if err != nil {
			return nil, DialogueInteractResult{}, toolError("dialogue interact", err, resolveLocale("", getContext))
		}
		NotifyResourceUpdates(ctx, notify, WorldStatusResource().URI)
		return nil, DialogueInteractResult{RequestID: requestID, QuestionHash: hash}, nil
	}
}

// DialogueStoreInput represents the MCP tool input for settling an exchange.
type DialogueStoreInput struct {
	RequestID string `json:"request_id" jsonschema:"correlation key returned by dialogue_interact"`
	Question  string `json:"question" jsonschema:"question text"`
	Response  string `json:"response" jsonschema:"generated NPC response text"`
}

// DialogueStoreResult represents the MCP tool output for settling an exchange.
type DialogueStoreResult struct {
	RequestID string `json:"request_id" jsonschema:"correlation key"`
	Stored    bool   `json:"stored" jsonschema:"true once the payload is settled"`
}

// DialogueStoreTool defines the MCP tool schema for settling an exchange.
func DialogueStoreTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "dialogue_store",
		Description: "Settles the question/response payload for a dialogue exchange. Idempotent for identical payloads; divergent payloads are rejected.",
	}
}

// DialogueStoreHandler executes a dialogue settle request.
func DialogueStoreHandler(world Chronicle, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[DialogueStoreInput, DialogueStoreResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DialogueStoreInput) (*mcp.CallToolResult, DialogueStoreResult, error) {
		requestID := strings.TrimSpace(input.RequestID)
		if requestID == "" {
			return nil, DialogueStoreResult{}, fmt.Errorf("request_id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := world.StoreContent(runCtx, requestID, input.Question, input.Response); err != nil {
			return nil, DialogueStoreResult{}, toolError("dialogue store", err, "")
		}
		NotifyResourceUpdates(ctx, notify, WorldStatusResource().URI)
		return nil, DialogueStoreResult{RequestID: requestID, Stored: true}, nil
	}
}

// DialogueHistoryInput represents the MCP tool input for reading an NPC's
// history.
type DialogueHistoryInput struct {
	NPC string `json:"npc" jsonschema:"NPC archetype identifier"`
}

// DialogueHistoryEntry is one settled exchange.
type DialogueHistoryEntry struct {
	RequestID   string `json:"request_id" jsonschema:"correlation key"`
	Question    string `json:"question" jsonschema:"question text"`
	Response    string `json:"response" jsonschema:"response text"`
	Timestamp   string `json:"timestamp" jsonschema:"RFC3339 timestamp of the interaction"`
	Degradation uint32 `json:"degradation" jsonschema:"NPC degradation at interaction time"`
}

// DialogueMessage is one line of the flattened transcript.
type DialogueMessage struct {
	Role      string `json:"role" jsonschema:"user or npc"`
	Text      string `json:"text" jsonschema:"message text"`
	Timestamp string `json:"timestamp" jsonschema:"RFC3339 timestamp; a response sits one tick after its question"`
}

// DialogueHistoryResult represents the MCP tool output for an NPC's history.
type DialogueHistoryResult struct {
	NPC      string                 `json:"npc" jsonschema:"NPC archetype identifier"`
	History  []DialogueHistoryEntry `json:"history" jsonschema:"settled exchanges in timestamp order"`
	Messages []DialogueMessage      `json:"messages" jsonschema:"history flattened into a renderable transcript"`
}

// DialogueHistoryTool defines the MCP tool schema for reading history.
func DialogueHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "dialogue_history",
		Description: "Returns an NPC's settled dialogue history: timestamp-ordered, deduplicated, unsettled exchanges omitted.",
	}
}

// DialogueHistoryHandler executes a dialogue history request.
func DialogueHistoryHandler(world Chronicle) mcp.ToolHandlerFor[DialogueHistoryInput, DialogueHistoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DialogueHistoryInput) (*mcp.CallToolResult, DialogueHistoryResult, error) {
		archetype, err := parseArchetype(input.NPC)
		if err != nil {
			return nil, DialogueHistoryResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		history, err := world.History(runCtx, archetype)
		if err != nil {
			return nil, DialogueHistoryResult{}, toolError("dialogue history", err, "")
		}

		result := DialogueHistoryResult{NPC: string(archetype)}
		for _, exchange := range history {
			result.History = append(result.History, DialogueHistoryEntry{
				RequestID:   exchange.RequestID,
				Question:    exchange.Question,
				Response:    exchange.Response,
				Timestamp:   formatTimestamp(exchange.Timestamp),
				Degradation: exchange.Degradation,
			})
		}
		for _, msg := range dialogue.Messages(history) {
			result.Messages = append(result.Messages, DialogueMessage{
				Role:      msg.Role,
				Text:      msg.Text,
				Timestamp: formatTimestamp(msg.Timestamp),
			})
		}
		return nil, result, nil
	}
}

// DialogueMemoryInput represents the MCP tool input for echoing an exchange
// into the inquirer's memory list.
type DialogueMemoryInput struct {
	RequestID string `json:"request_id" jsonschema:"correlation key of a settled exchange"`
}

// DialogueMemoryResult represents the MCP tool output for the echo.
type DialogueMemoryResult struct {
	RequestID string `json:"request_id" jsonschema:"correlation key"`
	Recorded  bool   `json:"recorded" jsonschema:"true once the memory is appended"`
}

// DialogueMemoryTool defines the MCP tool schema for the echo.
func DialogueMemoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "dialogue_memory",
		Description: "Records a settled dialogue exchange as a memory on the inquirer's being.",
	}
}

// DialogueMemoryHandler executes a dialogue memory request.
func DialogueMemoryHandler(world Chronicle, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[DialogueMemoryInput, DialogueMemoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DialogueMemoryInput) (*mcp.CallToolResult, DialogueMemoryResult, error) {
		requestID := strings.TrimSpace(input.RequestID)
		if requestID == "" {
			return nil, DialogueMemoryResult{}, fmt.Errorf("request_id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := world.RecordDialogueMemory(runCtx, requestID); err != nil {
			return nil, DialogueMemoryResult{}, toolError("dialogue memory", err, "")
		}
		NotifyResourceUpdates(ctx, notify, WorldStatusResource().URI)
		return nil, DialogueMemoryResult{RequestID: requestID, Recorded: true}, nil
	}
}

// parseArchetype validates an NPC identifier from tool input.
func parseArchetype(raw string) (npc.Archetype, error) {
	archetype := npc.Archetype(strings.TrimSpace(raw))
	if archetype == "" {
		return "", fmt.Errorf("npc is required")
	}
	return archetype, nil
}

// resolveLocale picks the explicit locale or falls back to the context.
func resolveLocale(explicit string, getContext func() Context) string {
	locale := strings.TrimSpace(explicit)
	if locale == "" && getContext != nil {
		locale = strings.TrimSpace(getContext().Locale)
	}
	return locale
}
