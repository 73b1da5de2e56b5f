package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"Fincrew/internal/tools"
	"Fincrew/pkg/types"
)

// MCPTool wraps an MCP tool to implement the Tool interface
type MCPTool struct {
	ServerName string
	ToolDef    *mcp.Tool
	Client     *Client
}

func (t *MCPTool) Name() string {
	return fmt.Sprintf("%s.%s", t.ServerName, t.ToolDef.Name)
}

func (t *MCPTool) Description() string {
	if t.ToolDef.Description == "" {
		return fmt.Sprintf("MCP tool %s from server %s", t.ToolDef.Name, t.ServerName)
	}
	return t.ToolDef.Description
}

// Execute passes a JSON object input as the tool arguments. Any other input
// is sent as {"input": <text>}.
func (t *MCPTool) Execute(ctx context.Context, input string) (string, error) {
	return t.Client.CallTool(ctx, t.ServerName, t.ToolDef.Name, toolArgs(input))
}

func toolArgs(input string) map[string]any {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		var args map[string]any
		if err := json.Unmarshal([]byte(trimmed), &args); err == nil {
			return args
		}
	}
	return map[string]any{"input": input}
}

// RegisterMCPTools registers all tools of a connected server and returns their
// names.
func RegisterMCPTools(registry *tools.Registry, client *Client, serverName string) ([]string, error) {
	mcpTools, err := client.GetTools(serverName)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(mcpTools))
	for _, toolDef := range mcpTools {
		tool := &MCPTool{
			ServerName: serverName,
			ToolDef:    toolDef,
			Client:     client,
		}
		registry.Register(tool)
		names = append(names, tool.Name())
	}

	return names, nil
}

// ConnectAll starts every server of a crew and registers its tools. On error
// the servers connected so far stay open; the caller closes the client.
func ConnectAll(ctx context.Context, client *Client, registry *tools.Registry, servers map[string]types.MCPServerConfig) error {
	for name, cfg := range servers {
		if err := client.Connect(ctx, name, cfg); err != nil {
			return err
		}
		if _, err := RegisterMCPTools(registry, client, name); err != nil {
			return err
		}
	}
	return nil
}
