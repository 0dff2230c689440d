package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yingzhou-world/chronicle/internal/services/mcp/domain"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

func registerBeingTools(registrar mcpRegistrationTarget, world domain.Chronicle, getContext func() domain.Context, notify domain.ResourceUpdateNotifier) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.BeingCreateTool(), handler: domain.BeingCreateHandler(world, getContext, notify)},
		{tool: domain.BeingReflectTool(), handler: domain.BeingReflectHandler(world, getContext)},
		{tool: domain.MemoryRecordTool(), handler: domain.MemoryRecordHandler(world, getContext, notify)},
		{tool: domain.MemoryListTool(), handler: domain.MemoryListHandler(world, getContext)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerDialogueTools(registrar mcpRegistrationTarget, world domain.Chronicle, getContext func() domain.Context, notify domain.ResourceUpdateNotifier) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.NPCListTool(), handler: domain.NPCListHandler(world, getContext)},
		{tool: domain.DialogueInteractTool(), handler: domain.DialogueInteractHandler(world, getContext, notify)},
		{tool: domain.DialogueStoreTool(), handler: domain.DialogueStoreHandler(world, notify)},
		{tool: domain.DialogueHistoryTool(), handler: domain.DialogueHistoryHandler(world)},
		{tool: domain.DialogueMemoryTool(), handler: domain.DialogueMemoryHandler(world, notify)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerProgressTools(registrar mcpRegistrationTarget, world domain.Chronicle, getContext func() domain.Context, notify domain.ResourceUpdateNotifier) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.FragmentGrantTool(), handler: domain.FragmentGrantHandler(world, getContext, notify)},
		{tool: domain.FragmentCollectionTool(), handler: domain.FragmentCollectionHandler(world, getContext)},
		{tool: domain.EpochStatusTool(), handler: domain.EpochStatusHandler(world, getContext)},
		{tool: domain.EpochAdvanceTool(), handler: domain.EpochAdvanceHandler(world, getContext, notify)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerWorldTools(registrar mcpRegistrationTarget, world domain.Chronicle, getContext func() domain.Context, notify domain.ResourceUpdateNotifier) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.WorldStatusTool(), handler: domain.WorldStatusHandler(world, getContext)},
		{tool: domain.WorldAdvanceTool(), handler: domain.WorldAdvanceHandler(world, getContext, notify)},
		{tool: domain.WorldFinalizeTool(), handler: domain.WorldFinalizeHandler(world, getContext, notify)},
		{tool: domain.EventGetTool(), handler: domain.EventGetHandler(world)},
		{tool: domain.EventListTool(), handler: domain.EventListHandler(world)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

// registerContextTools registers session context management tools.
func registerContextTools(registrar mcpRegistrationTarget, server *Server, notify domain.ResourceUpdateNotifier) error {
	return registerTool(registrar, domain.SetContextTool(), domain.SetContextHandler(
		server.setContext,
		server.getContext,
		notify,
	))
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

// registerWorldResources registers readable world MCP resources.
func registerWorldResources(registrar mcpRegistrationTarget, world domain.Chronicle, getContext func() domain.Context) {
	registrar.AddResource(domain.WorldStatusResource(), domain.WorldStatusResourceHandler(world, getContext))
}

// registerContextResources registers readable session context MCP resources.
func registerContextResources(registrar mcpRegistrationTarget, server *Server) {
	registrar.AddResource(domain.ContextResource(), domain.ContextResourceHandler(server.getContext))
}
