// Package domain translates MCP tool calls into chronicle operations.
//
// The package is intentionally explicit about that mapping:
// - parse MCP tool input into facade calls on the embedded world,
// - resolve missing identity fields from the session context,
// - and surface structured outputs that MCP clients can render.
//
// This keeps MCP behavior auditable from protocol message -> world mutation ->
// projection/read model update.
package domain
