package codegen

import (
	"strings"

	"github.com/aretw0/flowc/pkg/domain"
)

// DefaultIndent is the indentation added per nesting level.
const DefaultIndent = "  "

// Option configures a generation pass.
type Option func(*config)

type config struct {
	indent string
}

// WithIndent overrides the per-level indentation.
func WithIndent(indent string) Option {
	return func(c *config) {
		c.indent = indent
	}
}

func newConfig(opts []Option) config {
	c := config{indent: DefaultIndent}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Generate turns one flowchart into C source lines.
//
// Block headers always put a space before the parenthesis: "if (COND) {",
// "while (COND) {" and "for (...) {".
//
// The walk is depth first from the start node. Branching nodes visit their
// outgoing connections highest slot first, so a conditional emits its true
// branch, then "} else {" and the false branch, and a loop emits its body
// before continuing through its exit. Generation never fails: dangling edges
// end a chain early, and semantic problems turn into comments.
//
// Generate does not touch the flowchart; use Listing.Apply to record the
// line mapping on the nodes.
func Generate(f *domain.Flowchart, opts ...Option) *Listing {
	g := &generator{
		cfg:     newConfig(opts),
		f:       f,
		fn:      f.Name(),
		visited: make(map[domain.Tag]bool),
		out:     &Listing{},
	}
	g.function()
	return g.out
}

type generator struct {
	cfg     config
	f       *domain.Flowchart
	fn      string
	visited map[domain.Tag]bool
	out     *Listing
}

func (g *generator) function() {
	root := g.f.Root()
	g.visited[root.Tag] = true
	if sig := domain.Signature(root.Stmt); sig != nil {
		g.emit(0, root, sig.Signature()+" {")
	}
	if next, ok := g.f.Target(root.Tag, domain.SlotNext); ok {
		g.walk(root, next.Dst, domain.NoTag, 1)
	}
	// a broken chain still closes the function
	if end := g.f.End(); end != nil && !g.visited[end.Tag] {
		g.visited[end.Tag] = true
		g.functionEnd(end, 1)
	}
}

// walk emits the chain starting at tag until it reaches stop, leaves the
// graph, or would re-enter a block that encloses the previous node.
func (g *generator) walk(prev *domain.Node, tag, stop domain.Tag, depth int) {
	for tag != domain.NoTag && tag != stop {
		if g.visited[tag] || prev.InScope(tag) {
			return
		}
		n, ok := g.f.FindNode(tag)
		if !ok {
			return
		}
		g.visited[tag] = true
		tag = g.node(n, depth)
		prev = n
	}
}

// node emits n (and for blocks, everything nested in it) and returns the
// tag where the enclosing chain continues.
func (g *generator) node(n *domain.Node, depth int) domain.Tag {
	if g.f.Disabled(n.Tag) {
		return g.disabled(n, depth)
	}

	switch s := n.Stmt.(type) {
	case *domain.Conditional:
		return g.conditional(n, s, depth)
	case *domain.WhileLoop:
		return g.loop(n, depth, "while ("+s.Condition+") {", "}")
	case *domain.ForLoop:
		return g.loop(n, depth, forHeader(s), "}")
	case *domain.DoWhileLoop:
		return g.loop(n, depth, "do {", "} while ("+s.Condition+");")
	case *domain.FunctionEnd:
		g.functionEnd(n, depth)
		return domain.NoTag
	case *domain.Connector:
		// only reached through a malformed chain; merges emit nothing themselves
	case *domain.Input:
		g.input(n, s, depth)
	default:
		for _, text := range statementLines(n.Stmt) {
			g.emit(depth, n, text)
		}
	}
	return g.next(n.Tag, domain.SlotNext)
}

func (g *generator) conditional(n *domain.Node, s *domain.Conditional, depth int) domain.Tag {
	merge, ok := g.f.Connector(n.Tag)
	stop := domain.NoTag
	if ok {
		stop = merge.Tag
		g.visited[merge.Tag] = true
	}

	g.emit(depth, n, "if ("+s.Condition+") {")
	for _, c := range g.f.Outgoing(n.Tag) {
		switch c.SrcSlot {
		case domain.SlotTrue:
			g.walk(n, c.Dst, stop, depth+1)
		case domain.SlotFalse:
			if c.Dst == stop {
				continue
			}
			g.synthetic(depth, "} else {")
			g.walk(n, c.Dst, stop, depth+1)
		}
	}
	g.synthetic(depth, "}")

	if !ok {
		return domain.NoTag
	}
	return g.next(merge.Tag, domain.SlotNext)
}

func (g *generator) loop(n *domain.Node, depth int, header, footer string) domain.Tag {
	g.emit(depth, n, header)
	if body, ok := g.f.Target(n.Tag, domain.SlotBody); ok && body.Dst != n.Tag {
		g.walk(n, body.Dst, n.Tag, depth+1)
	}
	if footer == "}" {
		g.synthetic(depth, footer)
	} else {
		g.emit(depth, n, footer)
	}
	return g.next(n.Tag, domain.SlotExit)
}

func (g *generator) functionEnd(n *domain.Node, depth int) {
	if s, ok := n.Stmt.(*domain.FunctionEnd); ok && s.Value != "" {
		g.emit(depth, n, "return "+s.Value+";")
	}
	g.synthetic(depth-1, "}")
}

func (g *generator) input(n *domain.Node, s *domain.Input, depth int) {
	decl, ok := g.f.Declared(s.Name)
	if !ok {
		g.comment(depth, n, s.Name+" is not declared!")
		return
	}
	g.emit(depth, n, scanfLine(s, decl))
}

// disabled skips n and whatever it encloses, keeping only its commentary.
func (g *generator) disabled(n *domain.Node, depth int) domain.Tag {
	if n.Commentary != "" {
		for _, text := range strings.Split(n.Commentary, "\n") {
			g.comment(depth, nil, text)
		}
	}
	switch {
	case n.Kind() == domain.KindConditional:
		merge, ok := g.f.Connector(n.Tag)
		if !ok {
			return domain.NoTag
		}
		g.visited[merge.Tag] = true
		return g.next(merge.Tag, domain.SlotNext)
	case domain.IsLoop(n.Kind()):
		return g.next(n.Tag, domain.SlotExit)
	}
	return g.next(n.Tag, domain.SlotNext)
}

func (g *generator) next(tag domain.Tag, slot int) domain.Tag {
	c, ok := g.f.Target(tag, slot)
	if !ok || g.f.IsBackEdge(c) {
		return domain.NoTag
	}
	return c.Dst
}

func (g *generator) emit(depth int, n *domain.Node, text string) {
	g.out.Lines = append(g.out.Lines, Line{
		Text:     g.indent(depth) + text,
		Node:     n.Tag,
		Break:    n.BreakPoint,
		Function: g.fn,
	})
}

// comment emits a "// text" line. It keeps its node for highlighting but
// never carries a breakpoint since debuggers cannot stop on comments.
func (g *generator) comment(depth int, n *domain.Node, text string) {
	ln := Line{Text: g.indent(depth) + "// " + text, Function: g.fn}
	if n != nil {
		ln.Node = n.Tag
	}
	g.out.Lines = append(g.out.Lines, ln)
}

func (g *generator) synthetic(depth int, text string) {
	g.out.Lines = append(g.out.Lines, Line{Text: g.indent(depth) + text, Function: g.fn})
}

func (g *generator) indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(g.cfg.indent, depth)
}
