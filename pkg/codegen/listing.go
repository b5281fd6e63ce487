package codegen

import (
	"strings"

	"github.com/aretw0/flowc/pkg/domain"
)

// Line is one physical line of generated source.
type Line struct {
	Text string `json:"text"`
	// Node is the originating node, or domain.NoTag for synthetic lines
	// such as closing braces, else keywords, includes and prototypes.
	Node domain.Tag `json:"node,omitempty"`
	// Break is set when the originating node requested a breakpoint.
	Break bool `json:"break,omitempty"`
	// Function names the function the line belongs to, empty for the preamble.
	Function string `json:"function,omitempty"`
}

// Listing is the output of a generation pass: the source lines together
// with the line-to-node mapping.
type Listing struct {
	Lines []Line `json:"lines"`
}

// Len returns the number of lines.
func (l *Listing) Len() int { return len(l.Lines) }

// String joins the lines with newlines, without a trailing newline.
func (l *Listing) String() string {
	texts := make([]string, len(l.Lines))
	for i, ln := range l.Lines {
		texts[i] = ln.Text
	}
	return strings.Join(texts, "\n")
}

// Source returns the file content: the lines followed by a final newline.
func (l *Listing) Source() string {
	if len(l.Lines) == 0 {
		return ""
	}
	return l.String() + "\n"
}

// Line returns the 1-based line, if it exists.
func (l *Listing) Line(n int) (Line, bool) {
	if n < 1 || n > len(l.Lines) {
		return Line{}, false
	}
	return l.Lines[n-1], true
}

// Node returns the node that produced the 1-based line.
func (l *Listing) Node(n int) domain.Tag {
	ln, ok := l.Line(n)
	if !ok {
		return domain.NoTag
	}
	return ln.Node
}

// NodeLines maps every originating node to the 1-based lines it produced,
// in ascending order.
func (l *Listing) NodeLines() map[domain.Tag][]int {
	out := make(map[domain.Tag][]int)
	for i, ln := range l.Lines {
		if ln.Node != domain.NoTag {
			out[ln.Node] = append(out[ln.Node], i+1)
		}
	}
	return out
}

// Breakpoints returns the 1-based lines flagged for a debugger stop.
func (l *Listing) Breakpoints() []int {
	var out []int
	for i, ln := range l.Lines {
		if ln.Break {
			out = append(out, i+1)
		}
	}
	return out
}

// Apply records the line mapping on the nodes of the given flowcharts,
// replacing whatever a previous pass left there.
func (l *Listing) Apply(charts ...*domain.Flowchart) {
	lines := l.NodeLines()
	for _, f := range charts {
		f.SetLines(lines)
	}
}

// Equal reports whether two listings have identical text and mapping.
func (l *Listing) Equal(o *Listing) bool {
	if l == nil || o == nil {
		return l == o
	}
	if len(l.Lines) != len(o.Lines) {
		return false
	}
	for i := range l.Lines {
		if l.Lines[i] != o.Lines[i] {
			return false
		}
	}
	return true
}

func (l *Listing) append(other *Listing) {
	l.Lines = append(l.Lines, other.Lines...)
}

func (l *Listing) blank() {
	l.Lines = append(l.Lines, Line{})
}
