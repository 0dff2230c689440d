package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/being"
	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/dialogue"
)

// BeingCreateInput represents the MCP tool input for creating a being.
type BeingCreateInput struct {
	Owner string `json:"owner,omitempty" jsonschema:"owner account (defaults to context account)"`
}

// BeingCreateResult represents the MCP tool output for creating a being.
type BeingCreateResult struct {
	BeingID     uint64 `json:"being_id" jsonschema:"1-based being identifier"`
	GenesisHash string `json:"genesis_hash" jsonschema:"hex fingerprint assigned at creation"`
}

// BeingCreateTool defines the MCP tool schema for creating a being.
func BeingCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "being_create",
		Description: "Creates the caller's digital being. Each account may create exactly one.",
	}
}

// BeingCreateHandler executes a being creation request.
func BeingCreateHandler(world Chronicle, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[BeingCreateInput, BeingCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BeingCreateInput) (*mcp.CallToolResult, BeingCreateResult, error) {
		owner, err := resolveAccount(input.Owner, getContext)
		if err != nil {
			return nil, BeingCreateResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		ref, err := world.CreateBeing(runCtx, owner)
		if err != nil {
			return nil, BeingCreateResult{}, toolError("being create", err, resolveLocale("", getContext))
		}
		NotifyResourceUpdates(ctx, notify, WorldStatusResource().URI)
		return nil, BeingCreateResult{BeingID: ref.BeingID, GenesisHash: ref.GenesisHash}, nil
	}
}

// BeingReflectInput represents the MCP tool input for reflecting on a being.
type BeingReflectInput struct {
	BeingID uint64 `json:"being_id,omitempty" jsonschema:"being identifier (defaults to the context account's being)"`
}

// BeingReflectResult represents the MCP tool output for reflecting on a being.
type BeingReflectResult struct {
	BeingID          uint64 `json:"being_id" jsonschema:"being identifier"`
	AgeSeconds       int64  `json:"age_seconds" jsonschema:"seconds since creation"`
	MemoryCount      uint64 `json:"memory_count" jsonschema:"number of recorded memories"`
	InteractionCount uint64 `json:"interaction_count" jsonschema:"number of NPC interactions"`
	GenesisHash      string `json:"genesis_hash" jsonschema:"hex fingerprint assigned at creation"`
}

// BeingReflectTool defines the MCP tool schema for reflecting on a being.
func BeingReflectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "being_reflect",
		Description: "Returns the read view of a digital being: age, memory count, interaction count, and genesis hash.",
	}
}

// BeingReflectHandler executes a being reflection request.
func BeingReflectHandler(world Chronicle, getContext func() Context) mcp.ToolHandlerFor[BeingReflectInput, BeingReflectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BeingReflectInput) (*mcp.CallToolResult, BeingReflectResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		ref, err := reflectBeing(runCtx, world, input.BeingID, getContext)
		if err != nil {
			return nil, BeingReflectResult{}, err
		}
		return nil, BeingReflectResult{
			BeingID:          ref.BeingID,
			AgeSeconds:       int64(ref.Age.Seconds()),
			MemoryCount:      ref.MemoryCount,
			InteractionCount: ref.InteractionCount,
			GenesisHash:      ref.GenesisHash,
		}, nil
	}
}

// MemoryRecordInput represents the MCP tool input for recording a memory.
type MemoryRecordInput struct {
	BeingID  uint64 `json:"being_id,omitempty" jsonschema:"being identifier (defaults to the context account's being)"`
	Content  string `json:"content" jsonschema:"memory payload; only its hash is journaled"`
	Category string `json:"category,omitempty" jsonschema:"free-form category label"`
	Tag      string `json:"tag,omitempty" jsonschema:"free-form tag"`
}

// MemoryRecordResult represents the MCP tool output for recording a memory.
type MemoryRecordResult struct {
	BeingID     uint64 `json:"being_id" jsonschema:"being identifier"`
	ContentHash string `json:"content_hash" jsonschema:"hex hash of the recorded payload"`
	MemoryCount uint64 `json:"memory_count" jsonschema:"memory count after the append"`
}

// MemoryRecordTool defines the MCP tool schema for recording a memory.
func MemoryRecordTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "memory_record",
		Description: "Appends a memory to the caller's being. Only the owning account may record.",
	}
}

// MemoryRecordHandler executes a memory record request.
func MemoryRecordHandler(world Chronicle, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[MemoryRecordInput, MemoryRecordResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MemoryRecordInput) (*mcp.CallToolResult, MemoryRecordResult, error) {
		account, err := resolveAccount("", getContext)
		if err != nil {
			return nil, MemoryRecordResult{}, err
		}
		if strings.TrimSpace(input.Content) == "" {
			return nil, MemoryRecordResult{}, fmt.Errorf("content is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		ref, err := reflectBeing(runCtx, world, input.BeingID, getContext)
		if err != nil {
			return nil, MemoryRecordResult{}, err
		}

		hash := dialogue.HashText(input.Content)
		if err := world.RecordMemory(runCtx, ref.BeingID, account, hash, input.Category, input.Tag); err != nil {
			return nil, MemoryRecordResult{}, toolError("memory record", err, resolveLocale("", getContext))
		}

		after, err := world.Reflect(runCtx, ref.BeingID)
		if err != nil {
			return nil, MemoryRecordResult{}, fmt.Errorf("reflect after record: %w", err)
		}
		NotifyResourceUpdates(ctx, notify, WorldStatusResource().URI)
		return nil, MemoryRecordResult{
			BeingID:     ref.BeingID,
			ContentHash: hash,
			MemoryCount: after.MemoryCount,
		}, nil
	}
}

// MemoryListInput represents the MCP tool input for listing memories.
type MemoryListInput struct {
	BeingID uint64 `json:"being_id,omitempty" jsonschema:"being identifier (defaults to the context account's being)"`
}

// MemoryListEntry is one memory in the listing.
type MemoryListEntry struct {
	ContentHash string `json:"content_hash" jsonschema:"hex hash of the memory payload"`
	Category    string `json:"category,omitempty" jsonschema:"category label"`
	Tag         string `json:"tag,omitempty" jsonschema:"tag"`
	Timestamp   string `json:"timestamp" jsonschema:"RFC3339 timestamp of the append"`
}

// MemoryListResult represents the MCP tool output for listing memories.
type MemoryListResult struct {
	BeingID  uint64            `json:"being_id" jsonschema:"being identifier"`
	Memories []MemoryListEntry `json:"memories" jsonschema:"memories in record order"`
}

// MemoryListTool defines the MCP tool schema for listing memories.
func MemoryListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "memory_list",
		Description: "Lists a being's memories in record order.",
	}
}

// MemoryListHandler executes a memory list request.
func MemoryListHandler(world Chronicle, getContext func() Context) mcp.ToolHandlerFor[MemoryListInput, MemoryListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MemoryListInput) (*mcp.CallToolResult, MemoryListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		ref, err := reflectBeing(runCtx, world, input.BeingID, getContext)
		if err != nil {
			return nil, MemoryListResult{}, err
		}
		memories, err := world.Memories(runCtx, ref.BeingID)
		if err != nil {
			return nil, MemoryListResult{}, toolError("memory list", err, resolveLocale("", getContext))
		}

		result := MemoryListResult{BeingID: ref.BeingID}
		for _, m := range memories {
			result.Memories = append(result.Memories, MemoryListEntry{
				ContentHash: m.ContentHash,
				Category:    m.Category,
				Tag:         m.Tag,
				Timestamp:   formatTimestamp(m.Timestamp),
			})
		}
		return nil, result, nil
	}
}

// reflectBeing resolves a being by explicit id or via the context account.
func reflectBeing(ctx context.Context, world Chronicle, beingID uint64, getContext func() Context) (being.Reflection, error) {
	if beingID != 0 {
		ref, err := world.Reflect(ctx, beingID)
		if err != nil {
			return being.Reflection{}, fmt.Errorf("reflect being: %w", err)
		}
		return ref, nil
	}
	account, err := resolveAccount("", getContext)
	if err != nil {
		return being.Reflection{}, err
	}
	ref, err := world.BeingByOwner(ctx, account)
	if err != nil {
		return being.Reflection{}, fmt.Errorf("resolve being for account %s: %w", account, err)
	}
	return ref, nil
}

// resolveAccount picks the explicit account or falls back to the context.
func resolveAccount(explicit string, getContext func() Context) (string, error) {
	account := strings.TrimSpace(explicit)
	if account == "" && getContext != nil {
		account = strings.TrimSpace(getContext().Account)
	}
	if account == "" {
		return "", fmt.Errorf("account is required; pass it explicitly or call set_context first")
	}
	return account, nil
}
