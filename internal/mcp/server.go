// Package mcpserver exposes pepper's tools over the Model Context Protocol:
// on stdio when pepper is spawned by an MCP host, and as an SSE endpoint
// mounted on the HTTP server.
package mcpserver

import (
	"context"
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"pepper/internal/dispatch"
	"pepper/internal/intent"
)

// Options wires the MCP server to the routing core.
type Options struct {
	Version     string
	Distributor *dispatch.Distributor
	Detector    *intent.Detector
	UserID      string // calls arriving over MCP run as this user
}

// NewServer builds the MCP server with all pepper tools registered.
func NewServer(opts Options) *mcpsdk.Server {
	server := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "pepper",
			Version: opts.Version,
		},
		nil,
	)

	registerTools(server, opts)
	return server
}

// RunServer serves MCP over stdio until the context is cancelled.
func RunServer(ctx context.Context, opts Options) error {
	return NewServer(opts).Run(ctx, &mcpsdk.StdioTransport{})
}

// NewSSEHandler returns an http.Handler speaking MCP over SSE, for mounting
// on the REST server.
func NewSSEHandler(opts Options) http.Handler {
	server := NewServer(opts)
	return mcpsdk.NewSSEHandler(func(r *http.Request) *mcpsdk.Server {
		return server
	}, nil)
}
