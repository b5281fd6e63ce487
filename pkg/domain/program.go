package domain

import (
	"fmt"
	"slices"
)

// Program is an ordered set of functions, each one a flowchart.
// Order is the caller's: it is the order functions are emitted in.
type Program struct {
	Name string

	// Headers lists standard headers declared by the user, e.g. "math.h".
	Headers []string

	functions []*Flowchart
}

// NewProgram creates a program with an empty main function.
func NewProgram(name string) *Program {
	return &Program{
		Name:      name,
		functions: []*Flowchart{NewMain()},
	}
}

// Functions returns the flowcharts in emission order.
func (p *Program) Functions() []*Flowchart {
	return slices.Clone(p.functions)
}

// Function looks up a flowchart by function name.
func (p *Program) Function(name string) (*Flowchart, bool) {
	for _, f := range p.functions {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Main returns the entry point flowchart, if any.
func (p *Program) Main() (*Flowchart, bool) {
	for _, f := range p.functions {
		if f.Root().Kind() == KindRoot {
			return f, true
		}
	}
	return nil, false
}

// AddFunction appends a flowchart. Function names are unique.
func (p *Program) AddFunction(f *Flowchart) error {
	if _, exists := p.Function(f.Name()); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFunction, f.Name())
	}
	p.functions = append(p.functions, f)
	return nil
}

// RemoveFunction drops a flowchart by name.
func (p *Program) RemoveFunction(name string) error {
	for i, f := range p.functions {
		if f.Name() == name {
			p.functions = slices.Delete(p.functions, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
}

// Uninitialized returns the incomplete nodes of every function, keyed by function name.
func (p *Program) Uninitialized() map[string][]*Node {
	out := make(map[string][]*Node)
	for _, f := range p.functions {
		if nodes := f.Uninitialized(); len(nodes) > 0 {
			out[f.Name()] = nodes
		}
	}
	return out
}

// Ready reports whether every function can be generated.
func (p *Program) Ready() bool {
	return len(p.Uninitialized()) == 0
}

// FindNode searches every function for a tag.
func (p *Program) FindNode(tag Tag) (*Flowchart, *Node, bool) {
	for _, f := range p.functions {
		if n, ok := f.FindNode(tag); ok {
			return f, n, true
		}
	}
	return nil, nil, false
}

// Clone returns a deep copy of the program.
func (p *Program) Clone() *Program {
	c := &Program{
		Name:    p.Name,
		Headers: slices.Clone(p.Headers),
	}
	for _, f := range p.functions {
		c.functions = append(c.functions, f.Clone())
	}
	return c
}

// RestoreProgram assembles a program from already built flowcharts.
func RestoreProgram(name string, headers []string, functions ...*Flowchart) (*Program, error) {
	p := &Program{Name: name, Headers: slices.Clone(headers)}
	for _, f := range functions {
		if err := p.AddFunction(f); err != nil {
			return nil, err
		}
	}
	return p, nil
}
