package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yingzhou-world/chronicle/internal/platform/branding"
	"github.com/yingzhou-world/chronicle/internal/services/mcp/domain"
)

const (
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	HTTPAddr  string // HTTP listen address; defaults to localhost:8081 for HTTP transport.
}

// Server hosts the MCP server over an embedded chronicle.
type Server struct {
	mcpServer *mcp.Server
	world     domain.Chronicle
	ctx       domain.Context
	ctxMu     sync.RWMutex
}

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindResources
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(mcpRegistrationTarget) error
}

const (
	mcpBeingToolsModuleName      = "being-tools"
	mcpDialogueToolsModuleName   = "dialogue-tools"
	mcpProgressToolsModuleName   = "progress-tools"
	mcpWorldToolsModuleName      = "world-tools"
	mcpContextToolsModuleName    = "context-tools"
	mcpWorldResourceModuleName   = "world-resources"
	mcpContextResourceModuleName = "context-resources"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	r.server.AddResource(resource, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.BeingCreateInput, domain.BeingCreateResult](),
	newMCPToolRegistrar[domain.BeingReflectInput, domain.BeingReflectResult](),
	newMCPToolRegistrar[domain.MemoryRecordInput, domain.MemoryRecordResult](),
	newMCPToolRegistrar[domain.MemoryListInput, domain.MemoryListResult](),
	newMCPToolRegistrar[domain.NPCListInput, domain.NPCListResult](),
	newMCPToolRegistrar[domain.DialogueInteractInput, domain.DialogueInteractResult](),
	newMCPToolRegistrar[domain.DialogueStoreInput, domain.DialogueStoreResult](),
	newMCPToolRegistrar[domain.DialogueHistoryInput, domain.DialogueHistoryResult](),
	newMCPToolRegistrar[domain.DialogueMemoryInput, domain.DialogueMemoryResult](),
	newMCPToolRegistrar[domain.FragmentGrantInput, domain.FragmentGrantResult](),
	newMCPToolRegistrar[domain.FragmentCollectionInput, domain.FragmentCollectionResult](),
	newMCPToolRegistrar[domain.EpochStatusInput, domain.EpochStatusResult](),
	newMCPToolRegistrar[domain.EpochAdvanceInput, domain.EpochAdvanceResult](),
	newMCPToolRegistrar[domain.WorldStatusInput, domain.WorldStatusResult](),
	newMCPToolRegistrar[domain.WorldAdvanceInput, domain.WorldAdvanceResult](),
	newMCPToolRegistrar[domain.WorldFinalizeInput, domain.WorldFinalizeResult](),
	newMCPToolRegistrar[domain.EventGetInput, domain.EventGetResult](),
	newMCPToolRegistrar[domain.EventListInput, domain.EventListResult](),
	newMCPToolRegistrar[domain.SetContextInput, domain.SetContextResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(server *Server, notify domain.ResourceUpdateNotifier) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpBeingToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerBeingTools(registrar, server.world, server.getContext, notify)
			},
		},
		{
			name: mcpDialogueToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerDialogueTools(registrar, server.world, server.getContext, notify)
			},
		},
		{
			name: mcpProgressToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerProgressTools(registrar, server.world, server.getContext, notify)
			},
		},
		{
			name: mcpWorldToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerWorldTools(registrar, server.world, server.getContext, notify)
			},
		},
		{
			name: mcpContextToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerContextTools(registrar, server, notify)
			},
		},
		{
			name: mcpWorldResourceModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerWorldResources(registrar, server.world, server.getContext)
				return nil
			},
		},
		{
			name: mcpContextResourceModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerContextResources(registrar, server)
				return nil
			},
		},
	}
}

// New creates a configured MCP server bound to an embedded chronicle facade.
func New(world domain.Chronicle) (*Server, error) {
	if world == nil {
		return nil, fmt.Errorf("chronicle facade is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})

	server := &Server{mcpServer: mcpServer, world: world}
	resourceNotifier := func(ctx context.Context, uri string) {
		if strings.TrimSpace(uri) == "" {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}

	for _, module := range newMCPRegistrationModules(server, resourceNotifier) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	return server, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run is the service entrypoint for MCP and blocks until context
// cancellation. It is transport-agnostic so startup can choose stdio for
// local tools and HTTP for remote integrations.
func Run(ctx context.Context, world domain.Chronicle, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	server, err := New(world)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio:
		return server.Serve(ctx)
	case TransportHTTP:
		return server.ServeHTTP(ctx, cfg.HTTPAddr)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// setContext updates the server's session context state.
func (s *Server) setContext(ctx domain.Context) {
	if s == nil {
		return
	}
	s.ctxMu.Lock()
	defer s.ctxMu.Unlock()
	s.ctx = ctx
}

// getContext returns the server's current session context state.
func (s *Server) getContext() domain.Context {
	if s == nil {
		return domain.Context{}
	}
	s.ctxMu.RLock()
	defer s.ctxMu.RUnlock()
	return s.ctx
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
