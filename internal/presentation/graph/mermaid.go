package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowc/pkg/domain"
)

// GraphOverlay contains debug state to visualize on the graph.
type GraphOverlay struct {
	// Visited nodes the debugger already stopped on.
	Visited []domain.Tag
	// Current is the node being executed, NoTag when stopped elsewhere.
	Current domain.Tag
}

// GenerateMermaid produces a Mermaid flowchart from a flowchart graph.
// It applies shape styling per node variant:
// - Function start/end: (["Stadium"])
// - Conditional: {"Diamond"}
// - Loops: {{"Hexagon"}}
// - Input/Output: [/"Parallelogram"/]
// - Function call: [["Subroutine"]]
// - Connector: (("Circle"))
// - Default: ["Rectangle"]
// Breakpoints and disabled nodes are always styled; the overlay adds the
// visited and current classes.
func GenerateMermaid(f *domain.Flowchart, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var breaks, disabled []string
	for _, n := range f.Nodes() {
		id := nodeID(n.Tag)
		opener, closer := shape(n.Stmt.Shape())
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(Label(n.Stmt)), closer))
		if n.BreakPoint {
			breaks = append(breaks, id)
		}
		if f.Disabled(n.Tag) {
			disabled = append(disabled, id)
		}
	}

	for _, c := range f.Connections() {
		src, dst := nodeID(c.Src), nodeID(c.Dst)
		label := edgeLabel(f, c)
		switch {
		case f.IsBackEdge(c) && label != "":
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", src, label, dst))
		case f.IsBackEdge(c):
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", src, dst))
		case label != "":
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", src, label, dst))
		default:
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", src, dst))
		}
	}

	if len(breaks) > 0 || len(disabled) > 0 {
		sb.WriteString("\n    %% Node Styles\n")
		sb.WriteString("    classDef breakpoint stroke:#d32f2f,stroke-width:3px;\n")
		sb.WriteString("    classDef disabled fill:#eeeeee,stroke-dasharray:4 4,color:#757575;\n")
		for _, id := range breaks {
			sb.WriteString(fmt.Sprintf("    class %s breakpoint;\n", id))
		}
		for _, id := range disabled {
			sb.WriteString(fmt.Sprintf("    class %s disabled;\n", id))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.Tag]bool)
		for _, tag := range overlay.Visited {
			// the debugger may report nodes deleted since the last build
			if _, ok := f.FindNode(tag); !ok || seen[tag] {
				continue
			}
			seen[tag] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(tag)))
		}

		if _, ok := f.FindNode(overlay.Current); ok {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.Current)))
		}
	}

	return sb.String()
}

// Label is the one-line text shown inside a node box.
func Label(s domain.Statement) string {
	switch s := s.(type) {
	case *domain.Root:
		return s.Signature()
	case *domain.FunctionStart:
		return s.Signature()
	case *domain.FunctionEnd:
		if s.Value == "" {
			return "end"
		}
		return "return " + s.Value
	case *domain.Declaration:
		return declLabel(s)
	case *domain.Declarations:
		parts := make([]string, len(s.Vars))
		for i := range s.Vars {
			parts[i] = declLabel(&s.Vars[i])
		}
		return strings.Join(parts, "; ")
	case *domain.Assignment:
		target := s.Name
		if s.Offset != "" {
			target += "[" + s.Offset + "]"
		}
		return target + " = " + s.Value
	case *domain.Conditional:
		return s.Condition
	case *domain.WhileLoop:
		return "while " + s.Condition
	case *domain.DoWhileLoop:
		return "do while " + s.Condition
	case *domain.ForLoop:
		return "for " + s.Var + " = " + s.Start + "; " + s.Condition + "; " + s.Update
	case *domain.Input:
		return "read " + s.Name
	case *domain.Output:
		return strings.Join(append([]string{"print " + s.Format}, s.Args...), ", ")
	case *domain.FunctionCall:
		call := s.Name + "(" + strings.Join(s.Args, ", ") + ")"
		if s.Result != "" {
			return s.Result + " = " + call
		}
		return call
	case *domain.CodeSnippet:
		first, _, more := strings.Cut(strings.TrimSpace(s.Code), "\n")
		if more {
			return first + " ..."
		}
		return first
	case *domain.Connector:
		return " "
	}
	return string(s.Kind())
}

func declLabel(d *domain.Declaration) string {
	name := d.Name
	if d.IsPointer {
		name = "*" + name
	}
	if d.IsArray {
		name += "[" + d.ArraySize + "]"
	}
	out := d.Type + " " + name
	if d.Value != "" {
		out += " = " + d.Value
	}
	return out
}

func shape(s domain.Shape) (string, string) {
	switch s {
	case domain.ShapeTerminal:
		return "([", "])"
	case domain.ShapeDecision:
		return "{", "}"
	case domain.ShapeLoop:
		return "{{", "}}"
	case domain.ShapeIO:
		return "[/", "/]"
	case domain.ShapeSubroutine:
		return "[[", "]]"
	case domain.ShapeConnector:
		return "((", "))"
	}
	return "[", "]"
}

func edgeLabel(f *domain.Flowchart, c domain.Connection) string {
	src, ok := f.FindNode(c.Src)
	if !ok {
		return ""
	}
	switch {
	case src.Kind() == domain.KindConditional && c.SrcSlot == domain.SlotTrue:
		return "true"
	case src.Kind() == domain.KindConditional:
		return "false"
	case domain.IsLoop(src.Kind()) && c.SrcSlot == domain.SlotBody:
		return "body"
	case domain.IsLoop(src.Kind()):
		return "exit"
	}
	return ""
}

func nodeID(tag domain.Tag) string {
	return "n" + tag.String()
}

// escape keeps labels from closing the Mermaid string early.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}
