// Package service wires MCP transports to the chronicle tool handlers.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio or HTTP and delegates business meaning to the handlers in the domain
// package.
package service
