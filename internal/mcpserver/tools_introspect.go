package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/intent"
)

type emptyInput struct{}

type dialectsOutput struct {
	Dialects []string `json:"dialects"`
}

func handleDialects(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, dialectsOutput, error) {
	names := dialect.Names()
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, string(n))
	}
	return nil, dialectsOutput{Dialects: out}, nil
}

type intentEntry struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

type intentsOutput struct {
	Intents []intentEntry `json:"intents"`
}

func handleIntents(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, intentsOutput, error) {
	out := make([]intentEntry, 0, len(intent.AllIDs))
	for _, id := range intent.AllIDs {
		out = append(out, intentEntry{ID: string(id), Category: string(intent.CategoryOf(id))})
	}
	return nil, intentsOutput{Intents: out}, nil
}
