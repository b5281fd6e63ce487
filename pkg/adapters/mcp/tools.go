package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/flowc/internal/dto"
	"github.com/aretw0/flowc/internal/presentation/graph"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: listProgramsTool(), Handler: s.handleListPrograms},
		{Tool: generateSourceTool(), Handler: s.handleGenerateSource},
		{Tool: getGraphTool(), Handler: s.handleGetGraph},
		{Tool: addNodeTool(), Handler: s.handleAddNode},
		{Tool: removeNodeTool(), Handler: s.handleRemoveNode},
	}
}

// --- Tool definitions ---

func listProgramsTool() mcp.Tool {
	return mcp.NewTool("list_programs",
		mcp.WithDescription("List the names of the stored programs"),
	)
}

func generateSourceTool() mcp.Tool {
	return mcp.NewTool("generate_source",
		mcp.WithDescription("Generate the C source of a program"),
		mcp.WithString("program", mcp.Required(), mcp.Description("Program name")),
		mcp.WithBoolean("breakpoints", mcp.Description("Append the debugger breakpoint directives")),
	)
}

func getGraphTool() mcp.Tool {
	return mcp.NewTool("get_graph",
		mcp.WithDescription("Get the flowchart of one function"),
		mcp.WithString("program", mcp.Required(), mcp.Description("Program name")),
		mcp.WithString("function", mcp.Description("Function name (default: main)")),
		mcp.WithString("format",
			mcp.Enum("json", "mermaid"),
			mcp.Description("json returns nodes and connections, mermaid a diagram (default: json)"),
		),
	)
}

func addNodeTool() mcp.Tool {
	return mcp.NewTool("add_node",
		mcp.WithDescription("Insert a node after a parent node slot, splicing it into the existing chain"),
		mcp.WithString("program", mcp.Required(), mcp.Description("Program name")),
		mcp.WithString("function", mcp.Description("Function name (default: main)")),
		mcp.WithNumber("parent", mcp.Required(), mcp.Description("Tag of the parent node")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Node type, e.g. declaration, assignment, conditional, while_loop, output")),
		mcp.WithObject("fields", mcp.Description("Type specific fields, e.g. {\"type\": \"int\", \"name\": \"x\"}")),
		mcp.WithNumber("src_slot", mcp.Description("Parent slot: 1 is the true branch or loop body, 0 the next statement")),
		mcp.WithBoolean("break_point", mcp.Description("Stop the debugger on this node")),
	)
}

func removeNodeTool() mcp.Tool {
	return mcp.NewTool("remove_node",
		mcp.WithDescription("Remove a node, reconnecting its predecessor to its successor"),
		mcp.WithString("program", mcp.Required(), mcp.Description("Program name")),
		mcp.WithString("function", mcp.Description("Function name (default: main)")),
		mcp.WithNumber("tag", mcp.Required(), mcp.Description("Tag of the node to remove")),
		mcp.WithBoolean("cascade", mcp.Description("Also remove everything nested in a conditional or loop")),
	)
}

// --- Handlers ---

func (s *Server) handleListPrograms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.manager.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	if names == nil {
		names = []string{}
	}
	return marshalResult(names)
}

func (s *Server) handleGenerateSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("program")
	if err != nil {
		return mcp.NewToolResultError("program is required"), nil
	}
	p, err := s.manager.Load(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	art, _, err := s.compiler.Artifact(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}
	text := art.Source
	if req.GetBool("breakpoints", false) {
		text += "\n" + art.Breakpoints
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleGetGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("program")
	if err != nil {
		return mcp.NewToolResultError("program is required"), nil
	}
	fn := req.GetString("function", "main")
	p, err := s.manager.Load(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	f, ok := p.Function(fn)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("function %q not found", fn)), nil
	}

	if req.GetString("format", "json") == "mermaid" {
		return mcp.NewToolResultText(graph.GenerateMermaid(f, nil)), nil
	}

	doc, err := dto.FromProgram(p)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	for _, fd := range doc.Functions {
		if fd.Name == fn {
			return marshalResult(fd)
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("function %q not found", fn)), nil
}

func (s *Server) handleAddNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("program")
	if err != nil {
		return mcp.NewToolResultError("program is required"), nil
	}
	parent, err := req.RequireInt("parent")
	if err != nil || parent <= 0 {
		return mcp.NewToolResultError("parent is required"), nil
	}
	kind, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type is required"), nil
	}
	fields, _ := req.GetArguments()["fields"].(map[string]any)
	fn := req.GetString("function", "main")

	nr := dto.NodeRequest{
		Parent:     domain.Tag(parent),
		SrcSlot:    req.GetInt("src_slot", 0),
		Type:       domain.Kind(kind),
		Fields:     fields,
		BreakPoint: req.GetBool("break_point", false),
	}

	var n *domain.Node
	_, err = s.manager.Edit(ctx, name, func(p *domain.Program) error {
		var err error
		n, err = nr.Apply(p, fn)
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add_node failed: %v", err)), nil
	}
	s.logger.Info("node added", "program", name, "function", fn, "tag", n.Tag, "type", kind)

	doc, err := dto.FromNode(n)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return marshalResult(doc)
}

func (s *Server) handleRemoveNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("program")
	if err != nil {
		return mcp.NewToolResultError("program is required"), nil
	}
	raw, err := req.RequireInt("tag")
	if err != nil || raw <= 0 {
		return mcp.NewToolResultError("tag is required"), nil
	}
	tag := domain.Tag(raw)
	fn := req.GetString("function", "main")
	cascade := req.GetBool("cascade", false)

	_, err = s.manager.Edit(ctx, name, func(p *domain.Program) error {
		f, ok := p.Function(fn)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrFunctionNotFound, fn)
		}
		if cascade {
			return f.RemoveCascade(tag)
		}
		return f.RemoveNode(tag)
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remove_node failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed node %s", tag)), nil
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}
