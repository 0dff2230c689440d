// Package timeouts holds the durations shared across the chronicle binaries
// so the world and MCP services agree on boundary behavior.
package timeouts

import "time"

// GRPCDial caps the wait when dialing a gRPC peer, health probe included.
const GRPCDial = 2 * time.Second

// ReadHeader limits how long the MCP HTTP listener waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown bounds graceful HTTP shutdown. It exceeds the per-tool call
// timeout so in-flight tool invocations can settle before the drain ends.
const Shutdown = 35 * time.Second
