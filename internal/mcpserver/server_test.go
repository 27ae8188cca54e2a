package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/canvaskit/pkg/service"
	"github.com/matzehuels/canvaskit/pkg/store"
	"github.com/matzehuels/canvaskit/pkg/tools"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	n := 0
	logger := log.New(io.Discard)
	svc := service.New(store.New(store.NewMemoryBackend()),
		service.WithLogger(logger),
		service.WithIDGenerator(func() string { n++; return fmt.Sprintf("c%d", n) }),
	)
	return New(tools.NewRegistry(svc), logger)
}

func request(t *testing.T, name string, args map[string]any) mcp.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"params": map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)
	var req mcp.CallToolRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	return req
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) (*mcp.CallToolResult, tools.Result) {
	t.Helper()
	res, err := s.handle(name)(context.Background(), request(t, name, args))
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "first content is %T", res.Content[0])

	var env tools.Result
	if !res.IsError && name == tools.CanvasExportPNG {
		env.Success = true
		env.Message = text.Text
		return res, env
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &env))
	return res, env
}

func TestDefinition(t *testing.T) {
	s := newServer(t)
	reg := s.registry

	add, ok := reg.Lookup(tools.CanvasAddNode)
	require.True(t, ok)
	def := definition(add)
	assert.Equal(t, tools.CanvasAddNode, def.Name)
	assert.NotEmpty(t, def.Description)
	assert.ElementsMatch(t, []string{"canvasId", "nodeType", "label"}, def.InputSchema.Required)
	assert.Contains(t, def.InputSchema.Properties, "x")
	assert.Contains(t, def.InputSchema.Properties, "style")

	nodeType, ok := def.InputSchema.Properties["nodeType"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", nodeType["type"])
	assert.Len(t, nodeType["enum"], 9)

	del, ok := reg.Lookup(tools.CanvasDelete)
	require.True(t, ok)
	def = definition(del)
	require.NotNil(t, def.Annotations.DestructiveHint)
	assert.True(t, *def.Annotations.DestructiveHint)
}

func TestBranchesSchema(t *testing.T) {
	s := newServer(t)
	tool, ok := s.registry.Lookup(tools.MindmapAddBranch)
	require.True(t, ok)
	def := definition(tool)

	topics, ok := def.InputSchema.Properties["branchTopics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", topics["type"])
	assert.Equal(t, map[string]any{"type": "string"}, topics["items"])
}

func TestHandleSuccessAndFailure(t *testing.T) {
	s := newServer(t)

	res, env := callTool(t, s, tools.CanvasCreate, map[string]any{"name": "Roadmap", "type": "freeform"})
	assert.False(t, res.IsError)
	assert.True(t, env.Success)
	assert.Contains(t, env.Message, "Roadmap")

	res, env = callTool(t, s, tools.CanvasGet, map[string]any{"canvasId": "missing"})
	assert.True(t, res.IsError)
	assert.False(t, env.Success)
	assert.EqualValues(t, "NOT_FOUND", env.Code)

	res, env = callTool(t, s, tools.CanvasAddNode, map[string]any{"canvasId": "c1", "nodeType": "blob", "label": "x"})
	assert.True(t, res.IsError)
	assert.EqualValues(t, "INVALID_INPUT", env.Code)
}

func TestExportPNGAsImage(t *testing.T) {
	s := newServer(t)
	callTool(t, s, tools.MindmapCreate, map[string]any{
		"name": "Plan", "centralTopic": "Q1", "branches": []string{"Hiring", "Budget"},
	})

	res, env := callTool(t, s, tools.CanvasExportPNG, map[string]any{"canvasId": "c1", "width": 320, "height": 240})
	require.False(t, res.IsError)
	assert.Contains(t, env.Message, "PNG")
	require.Len(t, res.Content, 2)
	img, ok := res.Content[1].(mcp.ImageContent)
	require.True(t, ok, "second content is %T", res.Content[1])
	assert.Equal(t, "image/png", img.MIMEType)
	assert.NotEmpty(t, img.Data)
}

func TestToolsRegistered(t *testing.T) {
	s := newServer(t)
	msg := s.MCP().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Len(t, resp.Result.Tools, len(s.registry.Tools()))
}
