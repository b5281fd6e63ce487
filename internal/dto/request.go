package dto

import (
	"fmt"

	"github.com/aretw0/flowc/pkg/domain"
)

// NodeRequest asks for a new node after Parent's SrcSlot. It is the body of
// node insertions coming from the HTTP and MCP transports.
type NodeRequest struct {
	Parent     domain.Tag     `json:"parent"`
	SrcSlot    int            `json:"src_slot,omitempty"`
	DstSlot    int            `json:"dst_slot,omitempty"`
	Type       domain.Kind    `json:"type"`
	Fields     map[string]any `json:"fields,omitempty"`
	BreakPoint bool           `json:"break_point,omitempty"`
	Comment    bool           `json:"comment,omitempty"`
	Commentary string         `json:"commentary,omitempty"`
}

// Node builds the requested node with a fresh tag.
func (r NodeRequest) Node() (*domain.Node, error) {
	stmt := domain.NewStatement(r.Type)
	if stmt == nil {
		return nil, fmt.Errorf("%w: unknown type %q", domain.ErrInvalidNode, r.Type)
	}
	if err := DecodeFields(r.Fields, stmt); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidNode, err)
	}
	n := domain.NewNode(stmt)
	n.BreakPoint = r.BreakPoint
	n.Comment = r.Comment
	n.Commentary = r.Commentary
	return n, nil
}

// Apply inserts the requested node into the named function of p.
func (r NodeRequest) Apply(p *domain.Program, function string) (*domain.Node, error) {
	f, ok := p.Function(function)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFunctionNotFound, function)
	}
	n, err := r.Node()
	if err != nil {
		return nil, err
	}
	if err := f.AddNode(r.Parent, n, r.SrcSlot, r.DstSlot); err != nil {
		return nil, err
	}
	return n, nil
}

// FromNode converts a single node into its document form.
func FromNode(n *domain.Node) (NodeDocument, error) {
	return fromNode(n)
}
