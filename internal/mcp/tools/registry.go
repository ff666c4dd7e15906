package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobnexus/pkg/logging"
)

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	server *sdkmcp.Server
	logger *logging.Logger
	names  []string
}

// Register applies the provided tool options and returns the registered tool names
func Register(server *sdkmcp.Server, logger *logging.Logger, opts ...Option) []string {
	if logger == nil {
		logger = logging.NewNop()
	}

	reg := &registry{server: server, logger: logger}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}

	logger.Info("MCP tools registered", "tools", reg.names)
	return reg.names
}

// addTool registers a typed handler; input schemas are inferred from In's jsonschema tags
func addTool[In any](reg *registry, tool *sdkmcp.Tool, handler sdkmcp.ToolHandlerFor[In, any]) {
	sdkmcp.AddTool(reg.server, tool, handler)
	reg.names = append(reg.names, tool.Name)
}

// textResult wraps a human-readable summary; structured output travels next to it
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: msg}},
	}
}
