package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FragmentGrantInput represents the MCP tool input for granting a fragment.
type FragmentGrantInput struct {
	FragmentID uint32 `json:"fragment_id" jsonschema:"catalog fragment identifier"`
	Account    string `json:"account,omitempty" jsonschema:"receiving account (defaults to context account)"`
}

// FragmentGrantResult represents the MCP tool output for granting a fragment.
type FragmentGrantResult struct {
	FragmentID uint32 `json:"fragment_id" jsonschema:"catalog fragment identifier"`
	Account    string `json:"account" jsonschema:"receiving account"`
	Owned      bool   `json:"owned" jsonschema:"true once the account owns the fragment"`
}

// FragmentGrantTool defines the MCP tool schema for granting a fragment.
func FragmentGrantTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "fragment_grant",
		Description: "Grants a catalog fragment to an account. Granting an already-owned fragment is a no-op.",
	}
}

// FragmentGrantHandler executes a fragment grant request.
func FragmentGrantHandler(world Chronicle, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[FragmentGrantInput, FragmentGrantResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FragmentGrantInput) (*mcp.CallToolResult, FragmentGrantResult, error) {
		account, err := resolveAccount(input.Account, getContext)
		if err != nil {
			return nil, FragmentGrantResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := world.GrantFragment(runCtx, account, input.FragmentID); err != nil {
			return nil, FragmentGrantResult{}, toolError("fragment grant", err, resolveLocale("", getContext))
		}
		NotifyResourceUpdates(ctx, notify, WorldStatusResource().URI)
		return nil, FragmentGrantResult{FragmentID: input.FragmentID, Account: account, Owned: true}, nil
	}
}

// FragmentCollectionInput represents the MCP tool input for listing the
// fragment catalog.
type FragmentCollectionInput struct {
	Account string `json:"account,omitempty" jsonschema:"account whose ownership is marked (defaults to context account)"`
}

// FragmentCollectionEntry is one catalog fragment with an ownership marker.
type FragmentCollectionEntry struct {
	FragmentID  uint32 `json:"fragment_id" jsonschema:"catalog fragment identifier"`
	Name        string `json:"name" jsonschema:"fragment name"`
	Description string `json:"description" jsonschema:"fragment lore"`
	Epoch       uint8  `json:"epoch" jsonschema:"epoch the fragment belongs to"`
	Hidden      bool   `json:"hidden" jsonschema:"true for keyword-triggered fragments"`
	Owned       bool   `json:"owned" jsonschema:"whether the account owns the fragment"`
}

// FragmentCollectionResult represents the MCP tool output for the catalog.
type FragmentCollectionResult struct {
	Account   string                    `json:"account" jsonschema:"account whose ownership is marked"`
	Fragments []FragmentCollectionEntry `json:"fragments" jsonschema:"full catalog in id order"`
	Owned     int                       `json:"owned" jsonschema:"number of owned fragments"`
}

// FragmentCollectionTool defines the MCP tool schema for the catalog.
func FragmentCollectionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "fragment_collection",
		Description: "Lists the full fragment catalog with ownership markers for an account.",
	}
}

// FragmentCollectionHandler executes a fragment collection request.
func FragmentCollectionHandler(world Chronicle, getContext func() Context) mcp.ToolHandlerFor[FragmentCollectionInput, FragmentCollectionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FragmentCollectionInput) (*mcp.CallToolResult, FragmentCollectionResult, error) {
		account, err := resolveAccount(input.Account, getContext)
		if err != nil {
			return nil, FragmentCollectionResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		result := FragmentCollectionResult{Account: account}
		for _, view := range world.FragmentCollection(runCtx, account) {
			result.Fragments = append(result.Fragments, FragmentCollectionEntry{
				FragmentID:  view.Fragment.ID,
				Name:        view.Fragment.Name,
				Description: view.Fragment.Description,
				Epoch:       view.Fragment.Epoch,
				Hidden:      view.Fragment.Hidden,
				Owned:       view.Owned,
			})
			if view.Owned {
				result.Owned++
			}
		}
		return nil, result, nil
	}
}

// EpochStatusInput represents the MCP tool input for reading epoch progress.
type EpochStatusInput struct {
	Account string `json:"account,omitempty" jsonschema:"account whose progress is read (defaults to context account)"`
	Locale  string `json:"locale,omitempty" jsonschema:"BCP 47 locale for the era name (defaults to context locale)"`
}

// EpochStatusResult represents the MCP tool output for epoch progress.
type EpochStatusResult struct {
	Account         string `json:"account" jsonschema:"account whose progress is read"`
	CurrentEpoch    uint8  `json:"current_epoch" jsonschema:"0-based epoch index"`
	EraName         string `json:"era_name" jsonschema:"localized era name"`
	OwnedFragments  int    `json:"owned_fragments" jsonschema:"fragments the account owns"`
	NextRequirement int    `json:"next_requirement,omitempty" jsonschema:"fragments required for the next epoch"`
	AtTerminal      bool   `json:"at_terminal" jsonschema:"true once the account reached the final epoch"`
}

// EpochStatusTool defines the MCP tool schema for epoch progress.
func EpochStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "epoch_status",
		Description: "Returns an account's epoch progress: current epoch, owned fragments, and the next advancement requirement.",
	}
}

// EpochStatusHandler executes an epoch status request.
func EpochStatusHandler(world Chronicle, getContext func() Context) mcp.ToolHandlerFor[EpochStatusInput, EpochStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EpochStatusInput) (*mcp.CallToolResult, EpochStatusResult, error) {
		account, err := resolveAccount(input.Account, getContext)
		if err != nil {
			return nil, EpochStatusResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		status := world.EpochStatusFor(runCtx, account, resolveLocale(input.Locale, getContext))
		return nil, EpochStatusResult{
			Account:         status.Account,
			CurrentEpoch:    status.CurrentEpoch,
			EraName:         status.EraName,
			OwnedFragments:  status.OwnedFragments,
			NextRequirement: status.NextRequirement,
			AtTerminal:      status.AtTerminal,
		}, nil
	}
}

// EpochAdvanceInput represents the MCP tool input for advancing an epoch.
type EpochAdvanceInput struct {
	Account string `json:"account,omitempty" jsonschema:"advancing account (defaults to context account)"`
}

// EpochAdvanceResult represents the MCP tool output for advancing an epoch.
type EpochAdvanceResult struct {
	Account  string `json:"account" jsonschema:"advancing account"`
	Epoch    uint8  `json:"epoch" jsonschema:"epoch after the advance"`
	Terminal bool   `json:"terminal" jsonschema:"true when the terminal epoch was entered"`
}

// EpochAdvanceTool defines the MCP tool schema for advancing an epoch.
func EpochAdvanceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "epoch_advance",
		Description: "Advances an account exactly one epoch, gated by its fragment count. Entering the final epoch finalizes the world for everyone.",
	}
}

// EpochAdvanceHandler executes an epoch advance request.
func EpochAdvanceHandler(world Chronicle, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[EpochAdvanceInput, EpochAdvanceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EpochAdvanceInput) (*mcp.CallToolResult, EpochAdvanceResult, error) {
		account, err := resolveAccount(input.Account, getContext)
		if err != nil {
			return nil, EpochAdvanceResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		next, err := world.AdvanceEpoch(runCtx, account)
		if err != nil {
			return nil, EpochAdvanceResult{}, toolError("epoch advance", err, resolveLocale("", getContext))
		}
		status := world.EpochStatusFor(runCtx, account, resolveLocale("", getContext))
		NotifyResourceUpdates(ctx, notify, WorldStatusResource().URI)
		return nil, EpochAdvanceResult{Account: account, Epoch: next, Terminal: status.AtTerminal}, nil
	}
}
