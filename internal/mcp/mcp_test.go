package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"Fincrew/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickerInput struct {
	Input string `json:"input"`
}

func startServer(t *testing.T) mcp.Transport {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "filings"}, nil)
	mcp.AddTool(
		server, &mcp.Tool{Name: "lookup", Description: "Looks up a ticker"},
		func(_ context.Context, _ *mcp.CallToolRequest, in tickerInput) (*mcp.CallToolResult, *struct{}, error) {
			text := "filing for " + strings.ToUpper(in.Input)
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, nil, nil
		},
	)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	session, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return clientTransport
}

func TestRegisterAndCallMCPTool(t *testing.T) {
	ctx := context.Background()
	client := NewClient(nil)
	defer client.Close()

	require.NoError(t, client.ConnectTransport(ctx, "filings", startServer(t)))
	assert.Equal(t, []string{"filings"}, client.ListServerNames())

	registry := tools.NewRegistry()
	names, err := RegisterMCPTools(registry, client, "filings")
	require.NoError(t, err)
	assert.Equal(t, []string{"filings.lookup"}, names)

	tool, ok := registry.Get("filings.lookup")
	require.True(t, ok)
	assert.Equal(t, "Looks up a ticker", tool.Description())

	out, err := tool.Execute(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "filing for ACME", out)

	out, err = tool.Execute(ctx, `{"input": "beta"}`)
	require.NoError(t, err)
	assert.Equal(t, "filing for BETA", out)
}

func TestClientUnknownServer(t *testing.T) {
	client := NewClient(nil)

	_, err := client.GetTools("ghost")
	assert.Error(t, err)

	_, err = client.CallTool(context.Background(), "ghost", "lookup", nil)
	assert.Error(t, err)

	_, err = RegisterMCPTools(tools.NewRegistry(), client, "ghost")
	assert.Error(t, err)
}

func TestConnectRejectsDottedName(t *testing.T) {
	client := NewClient(nil)
	err := client.ConnectTransport(context.Background(), "a.b", nil)
	assert.ErrorContains(t, err, "must not contain")
}

func TestToolArgs(t *testing.T) {
	assert.Equal(t, map[string]any{"input": "AAPL"}, toolArgs("AAPL"))
	assert.Equal(t, map[string]any{"ticker": "AAPL"}, toolArgs(` {"ticker": "AAPL"} `))
	assert.Equal(t, map[string]any{"input": "{broken"}, toolArgs("{broken"))
}
