package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// AllSlots selects every outgoing slot in Children.
const AllSlots = -1

// Flowchart is the body of one function: nodes in insertion order plus the
// connections between them. Nodes live in an arena keyed by tag so loops
// (self back-edges) never turn into pointer cycles.
type Flowchart struct {
	nodes []*Node
	index map[Tag]*Node
	conns []Connection

	// container maps a node to its innermost enclosing block.
	container map[Tag]Tag

	root Tag
	end  Tag
}

// NewFlowchart creates a function body holding only its start and end nodes.
// start must be a *Root or *FunctionStart.
func NewFlowchart(start Statement) *Flowchart {
	f := newEmpty()

	startNode := NewNode(start)
	end := &FunctionEnd{}
	if fn := Signature(start); fn != nil && fn.ReturnType != "void" {
		end.Value = "0"
	}
	endNode := NewNode(end)

	f.insert(startNode, NoTag)
	f.insert(endNode, NoTag)
	f.root = startNode.Tag
	f.end = endNode.Tag
	f.conns = append(f.conns, Connection{Src: startNode.Tag, SrcSlot: SlotNext, Dst: endNode.Tag})
	return f
}

// NewMain creates the int main() flowchart.
func NewMain() *Flowchart {
	return NewFlowchart(NewRoot())
}

// Restore rebuilds a flowchart from persisted nodes and connections.
// Node scopes are trusted; the container index is derived from them.
func Restore(nodes []*Node, conns []Connection) (*Flowchart, error) {
	f := newEmpty()
	for _, n := range nodes {
		if n == nil || n.Stmt == nil {
			return nil, ErrInvalidNode
		}
		if _, dup := f.index[n.Tag]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.Tag)
		}
		ReserveTag(n.Tag)
		f.nodes = append(f.nodes, n)
		f.index[n.Tag] = n
		switch n.Kind() {
		case KindRoot, KindFunctionStart:
			f.root = n.Tag
		case KindFunctionEnd:
			f.end = n.Tag
		}
	}
	if f.root == NoTag || f.end == NoTag {
		return nil, fmt.Errorf("%w: flowchart needs a start and an end node", ErrInvalidNode)
	}
	for _, n := range f.nodes {
		if c, ok := f.innermost(n.Scope); ok {
			f.container[n.Tag] = c
		}
	}
	f.conns = slices.Clone(conns)
	return f, nil
}

func newEmpty() *Flowchart {
	return &Flowchart{
		index:     make(map[Tag]*Node),
		container: make(map[Tag]Tag),
	}
}

// Name returns the function name taken from the start node.
func (f *Flowchart) Name() string {
	if fn := Signature(f.Root().Stmt); fn != nil {
		return fn.Name
	}
	return ""
}

// Root returns the start node (Root or FunctionStart).
func (f *Flowchart) Root() *Node { return f.index[f.root] }

// End returns the FunctionEnd node.
func (f *Flowchart) End() *Node { return f.index[f.end] }

// Nodes returns the nodes in insertion order.
func (f *Flowchart) Nodes() []*Node { return slices.Clone(f.nodes) }

// Connections returns a copy of the connection list.
func (f *Flowchart) Connections() []Connection { return slices.Clone(f.conns) }

// Len reports the number of nodes.
func (f *Flowchart) Len() int { return len(f.nodes) }

// FindNode resolves a tag.
func (f *Flowchart) FindNode(tag Tag) (*Node, bool) {
	n, ok := f.index[tag]
	return n, ok
}

// Outgoing returns the connections leaving tag, highest slot first.
func (f *Flowchart) Outgoing(tag Tag) []Connection {
	var out []Connection
	for _, c := range f.conns {
		if c.Src == tag {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b Connection) int {
		return cmp.Compare(b.SrcSlot, a.SrcSlot)
	})
	return out
}

// Incoming returns the connections arriving at tag.
func (f *Flowchart) Incoming(tag Tag) []Connection {
	var in []Connection
	for _, c := range f.conns {
		if c.Dst == tag {
			in = append(in, c)
		}
	}
	return in
}

// Target returns the connection leaving slot of tag.
func (f *Flowchart) Target(tag Tag, slot int) (Connection, bool) {
	for _, c := range f.conns {
		if c.Src == tag && c.SrcSlot == slot {
			return c, true
		}
	}
	return Connection{}, false
}

// IsBackEdge reports whether c returns control to a loop header.
func (f *Flowchart) IsBackEdge(c Connection) bool {
	dst, ok := f.index[c.Dst]
	return ok && IsLoop(dst.Kind()) && c.DstSlot == SlotBody
}

// Connector returns the merge node of a conditional.
func (f *Flowchart) Connector(conditional Tag) (*Node, bool) {
	for _, n := range f.nodes {
		if c, ok := n.Stmt.(*Connector); ok && c.Conditional == conditional {
			return n, true
		}
	}
	return nil, false
}

// Container returns the innermost block enclosing tag.
func (f *Flowchart) Container(tag Tag) (Tag, bool) {
	c, ok := f.container[tag]
	return c, ok
}

// Disabled reports whether the node is disabled itself or sits inside a
// disabled block.
func (f *Flowchart) Disabled(tag Tag) bool {
	n, ok := f.index[tag]
	if !ok {
		return false
	}
	if n.Comment && !isBoundary(n.Kind()) {
		return true
	}
	// a connector is disabled with its conditional
	if c, ok := n.Stmt.(*Connector); ok {
		return f.Disabled(c.Conditional)
	}
	for _, s := range n.Scope {
		if b, ok := f.index[s]; ok && b.Comment {
			return true
		}
	}
	return false
}

// AddConnection adds a raw edge. Both ends must exist and the source slot
// must be free.
func (f *Flowchart) AddConnection(c Connection) error {
	src, ok := f.index[c.Src]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, c.Src)
	}
	if _, ok := f.index[c.Dst]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, c.Dst)
	}
	if c.SrcSlot < 0 || c.SrcSlot >= src.Stmt.Slots() {
		return fmt.Errorf("%w: %s has %d slots", ErrSlotOutOfRange, c.Src, src.Stmt.Slots())
	}
	if _, taken := f.Target(c.Src, c.SrcSlot); taken {
		return fmt.Errorf("%w: %s.%d", ErrSlotOccupied, c.Src, c.SrcSlot)
	}
	f.conns = append(f.conns, c)
	return nil
}

// RemoveConnection drops the edge leaving slot of src and returns it.
func (f *Flowchart) RemoveConnection(src Tag, slot int) (Connection, bool) {
	for i, c := range f.conns {
		if c.Src == src && c.SrcSlot == slot {
			f.conns = slices.Delete(f.conns, i, i+1)
			return c, true
		}
	}
	return Connection{}, false
}

// AddNode inserts n after the srcSlot output of parent.
//
// When that slot already leads to a node D the new node is spliced in:
// parent -> n -> D, with the edge into D keeping its destination slot.
// A conditional gets its merge Connector, and D hangs off the connector.
// A loop gets the self back-edge on its body slot, and D hangs off its exit.
func (f *Flowchart) AddNode(parent Tag, n *Node, srcSlot, dstSlot int) error {
	p, ok := f.index[parent]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrNodeNotFound, parent)
	}
	if n == nil || n.Stmt == nil {
		return ErrInvalidNode
	}
	if _, dup := f.index[n.Tag]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.Tag)
	}
	if isBoundary(n.Kind()) || n.Kind() == KindConnector {
		return fmt.Errorf("%w: %s", ErrProtectedNode, n.Kind())
	}
	if srcSlot < 0 || srcSlot >= p.Stmt.Slots() {
		return fmt.Errorf("%w: %s has %d slots", ErrSlotOutOfRange, parent, p.Stmt.Slots())
	}
	if dstSlot < 0 || (IsLoop(n.Kind()) && dstSlot == SlotBody) {
		return fmt.Errorf("%w: destination slot %d", ErrSlotOutOfRange, dstSlot)
	}

	scope, container := f.position(p, srcSlot)
	n.Scope = scope
	n.Lines = nil

	old, spliced := f.RemoveConnection(parent, srcSlot)
	f.insert(n, container)
	f.conns = append(f.conns, Connection{Src: parent, SrcSlot: srcSlot, Dst: n.Tag, DstSlot: dstSlot})

	exit := n.Tag
	switch {
	case n.Kind() == KindConditional:
		merge := NewNode(&Connector{Conditional: n.Tag})
		merge.Scope = slices.Clone(n.Scope)
		f.insert(merge, container)
		f.conns = append(f.conns,
			Connection{Src: n.Tag, SrcSlot: SlotTrue, Dst: merge.Tag, DstSlot: SlotTrue},
			Connection{Src: n.Tag, SrcSlot: SlotFalse, Dst: merge.Tag, DstSlot: SlotFalse},
		)
		exit = merge.Tag
	case IsLoop(n.Kind()):
		f.conns = append(f.conns, Connection{Src: n.Tag, SrcSlot: SlotBody, Dst: n.Tag, DstSlot: SlotBody})
	}

	if spliced {
		f.conns = append(f.conns, Connection{Src: exit, SrcSlot: SlotNext, Dst: old.Dst, DstSlot: old.DstSlot})
	}
	return nil
}

// RemoveNode splices n out of its chain: its predecessor is reconnected to
// its successor. Blocks must be empty; a block with children yields
// ErrHasChildren and is left untouched.
func (f *Flowchart) RemoveNode(tag Tag) error {
	n, ok := f.index[tag]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, tag)
	}
	if isBoundary(n.Kind()) || n.Kind() == KindConnector {
		return fmt.Errorf("%w: %s", ErrProtectedNode, n.Kind())
	}

	removed := []Tag{tag}
	exit := tag
	switch {
	case n.Kind() == KindConditional:
		merge, ok := f.Connector(tag)
		if !ok {
			return fmt.Errorf("%w: connector of %s", ErrNodeNotFound, tag)
		}
		t, _ := f.Target(tag, SlotTrue)
		e, _ := f.Target(tag, SlotFalse)
		if t.Dst != merge.Tag || e.Dst != merge.Tag {
			return fmt.Errorf("%w: %s", ErrHasChildren, tag)
		}
		removed = append(removed, merge.Tag)
		exit = merge.Tag
	case IsLoop(n.Kind()):
		if body, _ := f.Target(tag, SlotBody); body.Dst != tag {
			return fmt.Errorf("%w: %s", ErrHasChildren, tag)
		}
	}

	var pred *Connection
	for _, c := range f.Incoming(tag) {
		if c.Src != tag && !f.IsBackEdge(c) {
			pred = &c
			break
		}
	}
	next, hasNext := f.Target(exit, SlotNext)

	f.drop(removed...)
	if pred != nil && hasNext {
		f.conns = append(f.conns, Connection{Src: pred.Src, SrcSlot: pred.SrcSlot, Dst: next.Dst, DstSlot: next.DstSlot})
	}
	return nil
}

// RemoveCascade removes a block together with every node in its branches,
// then splices the block out. For other nodes it behaves like RemoveNode.
// It is the explicit opt-in for destructive edits with fan-out.
func (f *Flowchart) RemoveCascade(tag Tag) error {
	n, ok := f.index[tag]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, tag)
	}
	switch {
	case n.Kind() == KindConditional:
		merge, ok := f.Connector(tag)
		if !ok {
			return fmt.Errorf("%w: connector of %s", ErrNodeNotFound, tag)
		}
		f.drop(tagsOf(f.Children(tag, 0, AllSlots))...)
		f.RemoveConnection(tag, SlotTrue)
		f.RemoveConnection(tag, SlotFalse)
		f.conns = append(f.conns,
			Connection{Src: tag, SrcSlot: SlotTrue, Dst: merge.Tag, DstSlot: SlotTrue},
			Connection{Src: tag, SrcSlot: SlotFalse, Dst: merge.Tag, DstSlot: SlotFalse},
		)
	case IsLoop(n.Kind()):
		f.drop(tagsOf(f.Children(tag, 0, SlotBody))...)
		f.RemoveConnection(tag, SlotBody)
		f.conns = append(f.conns, Connection{Src: tag, SrcSlot: SlotBody, Dst: tag, DstSlot: SlotBody})
	}
	return f.RemoveNode(tag)
}

// Children returns the nodes reachable forward from tag, optionally limited
// to one outgoing slot of tag. Back-edges are never followed.
//
// condDepth counts the conditionals already open around tag. Merge points of
// conditionals opened during the walk are passed through; reaching the merge
// of an enclosing conditional stops the walk when condDepth is at least 1
// and continues past it at 0. A conditional start counts itself as open, so
// its children end at its own connector.
func (f *Flowchart) Children(tag Tag, condDepth, slot int) []*Node {
	start, ok := f.index[tag]
	if !ok {
		return nil
	}
	base := condDepth
	if start.Kind() == KindConditional {
		base++
	}

	var out []*Node
	visited := map[Tag]bool{tag: true}

	var walk func(from Tag, depth int, onlySlot int)
	walk = func(from Tag, depth int, onlySlot int) {
		for _, c := range f.Outgoing(from) {
			if onlySlot != AllSlots && c.SrcSlot != onlySlot {
				continue
			}
			if f.IsBackEdge(c) || visited[c.Dst] {
				continue
			}
			d, ok := f.index[c.Dst]
			if !ok {
				continue
			}
			next := depth
			switch d.Kind() {
			case KindConnector:
				if depth <= base {
					if base >= 1 {
						continue
					}
				} else {
					next--
				}
				visited[d.Tag] = true
				walk(d.Tag, next, AllSlots)
				continue
			case KindConditional:
				next++
			}
			visited[d.Tag] = true
			out = append(out, d)
			walk(d.Tag, next, AllSlots)
		}
	}
	walk(tag, base, slot)
	return out
}

// Uninitialized lists the nodes whose required fields are missing.
// Disabled nodes are ignored since they generate no code.
func (f *Flowchart) Uninitialized() []*Node {
	var out []*Node
	for _, n := range f.nodes {
		if !n.Initialized() && !f.Disabled(n.Tag) {
			out = append(out, n)
		}
	}
	return out
}

// IsInitialized reports whether the flowchart is ready for generation.
func (f *Flowchart) IsInitialized() bool {
	return len(f.Uninitialized()) == 0
}

// PruneDangling drops connections that reference missing nodes and returns
// how many were removed.
func (f *Flowchart) PruneDangling() int {
	before := len(f.conns)
	f.conns = slices.DeleteFunc(f.conns, func(c Connection) bool {
		_, src := f.index[c.Src]
		_, dst := f.index[c.Dst]
		return !src || !dst
	})
	return before - len(f.conns)
}

// Declared looks up a variable visible in the function: enabled
// declarations, parameters, and for-loop counters.
func (f *Flowchart) Declared(name string) (*Declaration, bool) {
	if fn := Signature(f.Root().Stmt); fn != nil {
		for _, p := range fn.Params {
			if p.Name == name {
				return paramDeclaration(p), true
			}
		}
	}
	for _, n := range f.nodes {
		if f.Disabled(n.Tag) {
			continue
		}
		switch s := n.Stmt.(type) {
		case *Declaration:
			if s.Name == name {
				return s, true
			}
		case *Declarations:
			for i := range s.Vars {
				if s.Vars[i].Name == name {
					return &s.Vars[i], true
				}
			}
		case *ForLoop:
			if s.Var == name {
				return &Declaration{Name: s.Var, Type: "int"}, true
			}
		}
	}
	return nil, false
}

// SetLines replaces every node's line set with the given mapping.
// Nodes missing from lines end up with none.
func (f *Flowchart) SetLines(lines map[Tag][]int) {
	for _, n := range f.nodes {
		n.Lines = slices.Clone(lines[n.Tag])
	}
}

// NodeAtLine returns the node that produced a source line.
func (f *Flowchart) NodeAtLine(line int) (*Node, bool) {
	for _, n := range f.nodes {
		if n.HasLine(line) {
			return n, true
		}
	}
	return nil, false
}

// Clone returns a deep copy sharing no mutable state with f.
func (f *Flowchart) Clone() *Flowchart {
	c := newEmpty()
	c.root, c.end = f.root, f.end
	for _, n := range f.nodes {
		cn := n.clone()
		c.nodes = append(c.nodes, cn)
		c.index[cn.Tag] = cn
	}
	for k, v := range f.container {
		c.container[k] = v
	}
	c.conns = slices.Clone(f.conns)
	return c
}

// position computes the scope and innermost container of a node placed
// after the srcSlot output of p.
func (f *Flowchart) position(p *Node, srcSlot int) ([]Tag, Tag) {
	inside := p.Kind() == KindConditional || (IsLoop(p.Kind()) && srcSlot == SlotBody)
	if inside {
		return scopeWith(p.Scope, p.Tag), p.Tag
	}
	return slices.Clone(p.Scope), f.container[p.Tag]
}

func (f *Flowchart) innermost(scope []Tag) (Tag, bool) {
	best, depth := NoTag, -1
	for _, s := range scope {
		if b, ok := f.index[s]; ok && len(b.Scope) > depth {
			best, depth = s, len(b.Scope)
		}
	}
	return best, best != NoTag
}

func (f *Flowchart) insert(n *Node, container Tag) {
	f.nodes = append(f.nodes, n)
	f.index[n.Tag] = n
	if container != NoTag {
		f.container[n.Tag] = container
	}
}

// drop deletes nodes and every connection touching them.
func (f *Flowchart) drop(tags ...Tag) {
	if len(tags) == 0 {
		return
	}
	gone := make(map[Tag]bool, len(tags))
	for _, t := range tags {
		gone[t] = true
		delete(f.index, t)
		delete(f.container, t)
	}
	f.nodes = slices.DeleteFunc(f.nodes, func(n *Node) bool { return gone[n.Tag] })
	f.conns = slices.DeleteFunc(f.conns, func(c Connection) bool { return gone[c.Src] || gone[c.Dst] })
}

func isBoundary(k Kind) bool {
	return k == KindRoot || k == KindFunctionStart || k == KindFunctionEnd
}

func tagsOf(nodes []*Node) []Tag {
	tags := make([]Tag, len(nodes))
	for i, n := range nodes {
		tags[i] = n.Tag
	}
	return tags
}

func paramDeclaration(p Param) *Declaration {
	d := &Declaration{Name: p.Name, Type: p.Type}
	if n := len(d.Type); n > 0 && d.Type[n-1] == '*' {
		d.Type = d.Type[:n-1]
		d.IsPointer = true
	}
	return d
}

// Signature returns the function head of a Root or FunctionStart statement.
func Signature(s Statement) *FunctionStart {
	switch v := s.(type) {
	case *Root:
		return &v.FunctionStart
	case *FunctionStart:
		return v
	}
	return nil
}
