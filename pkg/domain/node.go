package domain

import (
	"slices"
	"strconv"
	"sync/atomic"
)

// Tag identifies a node for the lifetime of the process.
// Tags are never reused, even after the node is removed.
type Tag uint64

// NoTag marks lines and lookups without an originating node.
const NoTag Tag = 0

var lastTag atomic.Uint64

// NewTag returns the next process-unique tag.
func NewTag() Tag {
	return Tag(lastTag.Add(1))
}

// ReserveTag advances the tag counter past t.
// Loaders call it for every tag read from a document so freshly created
// nodes never collide with persisted ones.
func ReserveTag(t Tag) {
	for {
		cur := lastTag.Load()
		if uint64(t) <= cur {
			return
		}
		if lastTag.CompareAndSwap(cur, uint64(t)) {
			return
		}
	}
}

func (t Tag) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// ParseTag parses the decimal form produced by Tag.String.
func ParseTag(s string) (Tag, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NoTag, err
	}
	return Tag(v), nil
}

// Node is a single flowchart box.
// The variant specific payload lives in Stmt; everything else is shared
// editor state.
type Node struct {
	Tag  Tag
	Stmt Statement

	// Comment disables the node: it is excluded from code generation and
	// rendered greyed out. Nodes nested in a disabled block inherit it.
	Comment bool

	// Commentary is a free text note. Disabled nodes emit it as a C comment.
	Commentary string

	// BreakPoint requests a debugger stop on every line the node produced.
	BreakPoint bool

	// Scope holds the tags of the enclosing blocks, sorted ascending.
	Scope []Tag

	// Lines are the 1-based source lines produced by the last generation pass.
	Lines []int
}

// NewNode wraps a statement in a node with a fresh tag.
func NewNode(stmt Statement) *Node {
	return &Node{
		Tag:  NewTag(),
		Stmt: stmt,
	}
}

// Kind reports the variant of the node.
func (n *Node) Kind() Kind {
	if n.Stmt == nil {
		return ""
	}
	return n.Stmt.Kind()
}

// Initialized reports whether all required fields of the node are set.
func (n *Node) Initialized() bool {
	return n.Stmt != nil && n.Stmt.Initialized()
}

// InScope reports whether the node is nested inside the block with the given tag.
func (n *Node) InScope(block Tag) bool {
	_, ok := slices.BinarySearch(n.Scope, block)
	return ok
}

// HasLine reports whether the node produced the given source line.
func (n *Node) HasLine(line int) bool {
	return slices.Contains(n.Lines, line)
}

func (n *Node) clone() *Node {
	c := *n
	c.Scope = slices.Clone(n.Scope)
	c.Lines = slices.Clone(n.Lines)
	if n.Stmt != nil {
		c.Stmt = n.Stmt.clone()
	}
	return &c
}

func scopeWith(scope []Tag, block Tag) []Tag {
	out := make([]Tag, 0, len(scope)+1)
	out = append(out, scope...)
	if i, ok := slices.BinarySearch(out, block); !ok {
		out = slices.Insert(out, i, block)
	}
	return out
}
