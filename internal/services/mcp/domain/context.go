package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SetContextInput represents the MCP tool input for setting session context.
type SetContextInput struct {
	Account string `json:"account" jsonschema:"account to act as (required)"`
	Locale  string `json:"locale,omitempty" jsonschema:"optional BCP 47 locale for display strings"`
	Grant   string `json:"grant,omitempty" jsonschema:"optional governor grant token for world-level mutations"`
}

// SetContextResult represents the MCP tool output for setting session context.
type SetContextResult struct {
	Context struct {
		Account  string `json:"account" jsonschema:"account for subsequent calls"`
		Locale   string `json:"locale,omitempty" jsonschema:"locale for subsequent calls"`
		HasGrant bool   `json:"has_grant" jsonschema:"whether a governor grant is held"`
	} `json:"context" jsonschema:"current session context"`
}

// SetContextTool defines the MCP tool schema for setting session context.
func SetContextTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_context",
		Description: "Sets the session context (account, optional locale, optional governor grant) used as defaults by subsequent tool calls.",
	}
}

// SetContextHandler executes a context set request. The handler needs access
// to the server's context state, so it takes setter and getter functions.
func SetContextHandler(
	setContextFunc func(ctx Context),
	getContextFunc func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[SetContextInput, SetContextResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SetContextInput) (*mcp.CallToolResult, SetContextResult, error) {
		account := strings.TrimSpace(input.Account)
		if account == "" {
			return nil, SetContextResult{}, fmt.Errorf("account is required")
		}

		setContextFunc(Context{
			Account: account,
			Locale:  strings.TrimSpace(input.Locale),
			Grant:   strings.TrimSpace(input.Grant),
		})
		NotifyResourceUpdates(ctx, notify, ContextResource().URI)

		current := getContextFunc()
		result := SetContextResult{}
		result.Context.Account = current.Account
		result.Context.Locale = current.Locale
		result.Context.HasGrant = current.Grant != ""
		return nil, result, nil
	}
}

// ContextResource defines the readable session context resource.
func ContextResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "context://current",
		Name:        "session-context",
		Description: "Current session context: account, locale, and whether a governor grant is held.",
		MIMEType:    "application/json",
	}
}

// contextPayload is the resource rendering of the session context. The grant
// token itself never leaves the server.
type contextPayload struct {
	Account  string `json:"account,omitempty"`
	Locale   string `json:"locale,omitempty"`
	HasGrant bool   `json:"has_grant"`
}

// ContextResourceHandler returns the readable session context resource.
func ContextResourceHandler(getContextFunc func() Context) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		current := Context{}
		if getContextFunc != nil {
			current = getContextFunc()
		}
		data, err := json.MarshalIndent(contextPayload{
			Account:  current.Account,
			Locale:   current.Locale,
			HasGrant: current.Grant != "",
		}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal context: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      ContextResource().URI,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
