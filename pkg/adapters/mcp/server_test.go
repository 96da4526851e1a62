package mcp_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	minimcp "github.com/aretw0/minibot/pkg/adapters/mcp"
	"github.com/aretw0/minibot/pkg/session"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()
	srv := minimcp.NewServer(session.NewManager(nil))

	c, err := client.NewInProcessClient(srv.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "minibot-test", Version: "0.0.0"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)
	return c
}

func call(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch tc := res.Content[0].(type) {
	case mcp.TextContent:
		return tc.Text
	case *mcp.TextContent:
		return tc.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func TestServer_ListTools(t *testing.T) {
	c := newClient(t)

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"chat", "evaluate", "list_tasks", "clear_tasks"}, names)
}

func TestServer_ChatAndTasks(t *testing.T) {
	c := newClient(t)

	res := call(t, c, "chat", map[string]any{"session_id": "m1", "text": "todo ekle rapor yaz"})
	require.False(t, res.IsError, text(t, res))
	var chat minimcp.ChatResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &chat))
	assert.Equal(t, "todo_add", chat.Source)
	assert.Equal(t, "m1", chat.SessionID)

	res = call(t, c, "list_tasks", map[string]any{"session_id": "m1"})
	require.False(t, res.IsError, text(t, res))
	var tasks minimcp.TasksResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &tasks))
	assert.Equal(t, []string{"rapor yaz"}, tasks.Items)

	res = call(t, c, "list_tasks", map[string]any{"session_id": "other"})
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &tasks))
	assert.Empty(t, tasks.Items)

	res = call(t, c, "clear_tasks", map[string]any{"session_id": "m1"})
	require.False(t, res.IsError, text(t, res))
	res = call(t, c, "list_tasks", map[string]any{"session_id": "m1"})
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &tasks))
	assert.Empty(t, tasks.Items)
}

func TestServer_ChatRequiresSession(t *testing.T) {
	c := newClient(t)

	res := call(t, c, "chat", map[string]any{"text": "merhaba"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "session id is required")
}

func TestServer_Evaluate(t *testing.T) {
	c := newClient(t)

	res := call(t, c, "evaluate", map[string]any{"expression": "(1+2)*3"})
	require.False(t, res.IsError, text(t, res))
	var out minimcp.EvaluateResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Equal(t, 9.0, out.Result)
	assert.Equal(t, "9", out.Formatted)

	res = call(t, c, "evaluate", map[string]any{"expression": "1/0"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "DivisionByZero")

	res = call(t, c, "evaluate", map[string]any{"expression": 42})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "invalid arguments")
}

func TestServer_EvaluateRejectsHostileInput(t *testing.T) {
	c := newClient(t)

	res := call(t, c, "evaluate", map[string]any{"expression": strings.Repeat("(", 1_000_000) + "1" + strings.Repeat(")", 1_000_000)})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "input rejected")

	res = call(t, c, "evaluate", map[string]any{"expression": strings.Repeat("(", 1000) + "1" + strings.Repeat(")", 1000)})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "SyntaxError")
	assert.Contains(t, text(t, res), "nested too deeply")

	res = call(t, c, "evaluate", map[string]any{"expression": "7 // 2"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "DisallowedConstruct")
}

func TestServer_IntentsResource(t *testing.T) {
	c := newClient(t)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = minimcp.IntentsURI
	res, err := c.ReadResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	var raw string
	switch tc := res.Contents[0].(type) {
	case mcp.TextResourceContents:
		raw = tc.Text
	case *mcp.TextResourceContents:
		raw = tc.Text
	default:
		t.Fatalf("unexpected contents %T", res.Contents[0])
	}

	var intents []minimcp.IntentInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &intents))
	require.NotEmpty(t, intents)
	assert.Equal(t, "greeting", intents[0].Name)
}
