package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"Fincrew/internal/logging"
	"Fincrew/pkg/types"
)

// Client manages connections to MCP servers
type Client struct {
	mu      sync.RWMutex
	servers map[string]*mcpServer
	client  *mcp.Client
	logger  *slog.Logger
}

type mcpServer struct {
	session *mcp.ClientSession
	tools   []*mcp.Tool
}

// NewClient creates a new MCP client manager
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "fincrew",
		Version: "1.0.0",
	}, nil)

	return &Client{
		servers: make(map[string]*mcpServer),
		client:  client,
		logger:  logger,
	}
}

// Connect starts an MCP server as a subprocess and connects to it
func (c *Client) Connect(ctx context.Context, name string, config types.MCPServerConfig) error {
	cmd := exec.Command(config.Command, config.Args...)
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}
	return c.ConnectTransport(ctx, name, &mcp.CommandTransport{Command: cmd})
}

// ConnectTransport connects to a server over an existing transport and lists
// its tools.
func (c *Client) ConnectTransport(ctx context.Context, name string, transport mcp.Transport) error {
	if strings.Contains(name, ".") {
		return fmt.Errorf("MCP server name %q must not contain '.'", name)
	}

	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to MCP server %s: %w", name, err)
	}

	toolsResult, err := session.ListTools(ctx, nil)
	if err != nil {
		session.Close()
		return fmt.Errorf("failed to list tools of %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.servers[name]; ok {
		old.session.Close()
	}
	c.servers[name] = &mcpServer{
		session: session,
		tools:   toolsResult.Tools,
	}
	c.logger.Info("connected to MCP server", "server", name, "tools", len(toolsResult.Tools))

	return nil
}

// GetTools returns tools from a specific server
func (c *Client) GetTools(serverName string) ([]*mcp.Tool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	server, ok := c.servers[serverName]
	if !ok {
		return nil, fmt.Errorf("MCP server not found: %s", serverName)
	}

	return server.tools, nil
}

// CallTool executes a tool on an MCP server and returns its text content
func (c *Client) CallTool(ctx context.Context, serverName, toolName string, args map[string]any) (string, error) {
	c.mu.RLock()
	server, ok := c.servers[serverName]
	c.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("MCP server not found: %s", serverName)
	}

	result, err := server.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("tool call failed: %w", err)
	}

	var output strings.Builder
	for _, content := range result.Content {
		if textContent, ok := content.(*mcp.TextContent); ok {
			output.WriteString(textContent.Text)
		}
	}
	if result.IsError {
		return "", fmt.Errorf("%s.%s: %s", serverName, toolName, output.String())
	}

	return output.String(), nil
}

// Close shuts down all MCP server connections
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, server := range c.servers {
		if server.session != nil {
			server.session.Close()
		}
		delete(c.servers, name)
	}

	return nil
}

// ListServerNames returns all connected server names, sorted
func (c *Client) ListServerNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.servers))
	for name := range c.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
