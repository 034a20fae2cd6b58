// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes the specforge generation pipeline as an MCP tool over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specforge/specforge"

	// blank imports register the dialect parsers at program init.
	_ "github.com/specforge/specforge/dialect/dynamicsource"
	_ "github.com/specforge/specforge/dialect/httpcontract"
	_ "github.com/specforge/specforge/dialect/typedsource"
)

const serverInstructions = `specforge MCP server — generates executable test suites from API and source-code specifications.

Configuration: defaults are configurable via SPECFORGE_MCP_* environment variables set in your MCP client config.

Key settings:
- SPECFORGE_MCP_WORKER_LIMIT (default: 4) — per-stage parallel worker cap
- SPECFORGE_MCP_LLM_ENABLED (default: false) — allow generate requests to enable payload enhancement`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "specforge", Version: specforge.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate an executable test suite from an API or source-code specification. Accepts one of three dialects (http-contract, dynamic-source, typed-source) and renders one of three target frameworks (http-sync, http-async, function-direct). Returns the rendered test file contents inline, one per operation.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dialects",
		Description: "List the source dialects accepted by the generate tool.",
	}, handleDialects)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "intents",
		Description: "List the frozen test-intent catalog usable in a generate request's target_intents allow-list.",
	}, handleIntents)
}
