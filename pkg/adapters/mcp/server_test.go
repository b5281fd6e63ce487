package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/flowc/internal/dto"
	"github.com/aretw0/flowc/pkg/adapters/memory"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, domain.Tag) {
	t.Helper()
	p := domain.NewProgram("demo")
	main, ok := p.Main()
	require.True(t, ok)
	manager := session.NewManager(memory.NewStore(p))
	return NewServer(manager), main.Root().Tag
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestNewServer_RegistersTools(t *testing.T) {
	s, _ := newTestServer(t)

	tools := s.MCPServer().ListTools()
	for _, name := range []string{"list_programs", "generate_source", "get_graph", "add_node", "remove_node"} {
		assert.Contains(t, tools, name)
	}

	tool := s.MCPServer().GetTool("add_node")
	require.NotNil(t, tool)
	assert.Contains(t, tool.Tool.Description, "splicing")
}

func TestListPrograms(t *testing.T) {
	s, _ := newTestServer(t)

	result := call(t, s.handleListPrograms, "list_programs", nil)
	assert.False(t, result.IsError)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &names))
	assert.Equal(t, []string{"demo"}, names)
}

func TestAddNodeThenGenerate(t *testing.T) {
	s, root := newTestServer(t)

	result := call(t, s.handleAddNode, "add_node", map[string]any{
		"program":     "demo",
		"parent":      float64(root),
		"type":        "declaration",
		"fields":      map[string]any{"type": "int", "name": "x", "value": "1"},
		"break_point": true,
	})
	require.False(t, result.IsError, text(t, result))

	var doc dto.NodeDocument
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &doc))
	assert.Equal(t, domain.KindDeclaration, doc.Type)
	assert.True(t, doc.BreakPoint)

	result = call(t, s.handleGenerateSource, "generate_source", map[string]any{
		"program":     "demo",
		"breakpoints": true,
	})
	require.False(t, result.IsError, text(t, result))
	source := text(t, result)
	assert.Contains(t, source, "int x = 1;")
	assert.Contains(t, source, "break demo.c:")

	result = call(t, s.handleGetGraph, "get_graph", map[string]any{
		"program": "demo",
		"format":  "mermaid",
	})
	require.False(t, result.IsError)
	assert.Contains(t, text(t, result), "graph TD")

	result = call(t, s.handleRemoveNode, "remove_node", map[string]any{
		"program": "demo",
		"tag":     float64(doc.Tag),
	})
	require.False(t, result.IsError, text(t, result))

	result = call(t, s.handleGenerateSource, "generate_source", map[string]any{"program": "demo"})
	require.False(t, result.IsError)
	assert.NotContains(t, text(t, result), "int x")
}

func TestGetGraph_JSON(t *testing.T) {
	s, root := newTestServer(t)

	result := call(t, s.handleGetGraph, "get_graph", map[string]any{"program": "demo"})
	require.False(t, result.IsError)

	var fd dto.FunctionDocument
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &fd))
	assert.Equal(t, "main", fd.Name)
	require.NotEmpty(t, fd.Nodes)
	assert.Equal(t, root, fd.Nodes[0].Tag)
}

func TestToolErrors(t *testing.T) {
	s, root := newTestServer(t)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
	}{
		{"generate without program", s.handleGenerateSource, map[string]any{}},
		{"generate unknown program", s.handleGenerateSource, map[string]any{"program": "nope"}},
		{"graph unknown function", s.handleGetGraph, map[string]any{"program": "demo", "function": "helper"}},
		{"add without parent", s.handleAddNode, map[string]any{"program": "demo", "type": "assignment"}},
		{"add unknown type", s.handleAddNode, map[string]any{"program": "demo", "parent": float64(root), "type": "goto"}},
		{"add bad slot", s.handleAddNode, map[string]any{"program": "demo", "parent": float64(root), "type": "assignment", "src_slot": float64(3)}},
		{"remove root", s.handleRemoveNode, map[string]any{"program": "demo", "tag": float64(root)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, tt.handler, "tool", tt.args)
			assert.True(t, result.IsError)
		})
	}
}
