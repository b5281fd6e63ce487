package dsl

import (
	"fmt"

	"github.com/aretw0/flowc/pkg/domain"
)

// Builder appends nodes to one chain of a flowchart. Branch and loop bodies
// get their own Builder sharing the flowchart and the first error.
type Builder struct {
	f      *domain.Flowchart
	parent domain.Tag
	slot   int
	last   *domain.Node
	err    *error
}

// Main starts a builder on a fresh int main() flowchart.
func Main() *Builder {
	return On(domain.NewMain())
}

// Function starts a builder on a fresh function flowchart.
func Function(returnType, name string, params ...domain.Param) *Builder {
	return On(domain.NewFlowchart(&domain.FunctionStart{
		Name:       name,
		ReturnType: returnType,
		Params:     params,
	}))
}

// On starts a builder that appends right after the start node of f.
func On(f *domain.Flowchart) *Builder {
	var err error
	return &Builder{f: f, parent: f.Root().Tag, slot: domain.SlotNext, err: &err}
}

// After starts a builder that appends after the given slot of an existing node.
func After(f *domain.Flowchart, parent domain.Tag, slot int) *Builder {
	var err error
	return &Builder{f: f, parent: parent, slot: slot, err: &err}
}

// Node appends an arbitrary statement.
func (b *Builder) Node(stmt domain.Statement) *Builder {
	if *b.err != nil {
		return b
	}
	n := domain.NewNode(stmt)
	if err := b.f.AddNode(b.parent, n, b.slot, 0); err != nil {
		*b.err = fmt.Errorf("add %s: %w", stmt.Kind(), err)
		return b
	}
	b.last = n
	b.parent, b.slot = n.Tag, domain.SlotNext
	if n.Kind() == domain.KindConditional {
		if merge, ok := b.f.Connector(n.Tag); ok {
			b.parent = merge.Tag
		}
	}
	return b
}

// Declare appends TYPE NAME[ = VALUE];
func (b *Builder) Declare(typ, name, value string) *Builder {
	return b.Node(&domain.Declaration{Type: typ, Name: name, Value: value})
}

// DeclareArray appends TYPE NAME[SIZE];
func (b *Builder) DeclareArray(typ, name, size string) *Builder {
	return b.Node(&domain.Declaration{Type: typ, Name: name, IsArray: true, ArraySize: size})
}

// DeclarePointer appends TYPE *NAME[ = VALUE];
func (b *Builder) DeclarePointer(typ, name, value string) *Builder {
	return b.Node(&domain.Declaration{Type: typ, Name: name, Value: value, IsPointer: true})
}

// Assign appends NAME = VALUE;
func (b *Builder) Assign(name, value string) *Builder {
	return b.Node(&domain.Assignment{Name: name, Value: value})
}

// Input appends a scanf of the named variable.
func (b *Builder) Input(name string) *Builder {
	return b.Node(&domain.Input{Name: name})
}

// Print appends a printf.
func (b *Builder) Print(format string, args ...string) *Builder {
	return b.Node(&domain.Output{Format: format, Args: args})
}

// Call appends NAME(ARGS);
func (b *Builder) Call(name string, args ...string) *Builder {
	return b.Node(&domain.FunctionCall{Name: name, Args: args})
}

// CallInto appends RESULT = NAME(ARGS);
func (b *Builder) CallInto(result, name string, args ...string) *Builder {
	return b.Node(&domain.FunctionCall{Name: name, Args: args, Result: result})
}

// Code appends a raw snippet.
func (b *Builder) Code(code string) *Builder {
	return b.Node(&domain.CodeSnippet{Code: code})
}

// If appends a conditional. then and otherwise may be nil for empty branches.
func (b *Builder) If(cond string, then, otherwise func(*Builder)) *Builder {
	b.Node(&domain.Conditional{Condition: cond})
	if *b.err != nil {
		return b
	}
	c := b.last
	if then != nil {
		then(b.branch(c.Tag, domain.SlotTrue))
	}
	if otherwise != nil {
		otherwise(b.branch(c.Tag, domain.SlotFalse))
	}
	return b
}

// While appends a while loop with the given body.
func (b *Builder) While(cond string, body func(*Builder)) *Builder {
	return b.loop(&domain.WhileLoop{Condition: cond}, body)
}

// DoWhile appends a do-while loop with the given body.
func (b *Builder) DoWhile(cond string, body func(*Builder)) *Builder {
	return b.loop(&domain.DoWhileLoop{Condition: cond}, body)
}

// For appends for (int VAR = START; COND; UPDATE) with the given body.
func (b *Builder) For(v, start, cond, update string, body func(*Builder)) *Builder {
	return b.loop(&domain.ForLoop{Var: v, Start: start, Condition: cond, Update: update}, body)
}

func (b *Builder) loop(stmt domain.Statement, body func(*Builder)) *Builder {
	b.Node(stmt)
	if *b.err != nil {
		return b
	}
	if body != nil {
		body(b.branch(b.last.Tag, domain.SlotBody))
	}
	return b
}

func (b *Builder) branch(parent domain.Tag, slot int) *Builder {
	return &Builder{f: b.f, parent: parent, slot: slot, err: b.err}
}

// Break flags the last appended node for a debugger stop.
func (b *Builder) Break() *Builder {
	if b.last != nil {
		b.last.BreakPoint = true
	}
	return b
}

// Disable marks the last appended node as commented out.
func (b *Builder) Disable(commentary string) *Builder {
	if b.last != nil {
		b.last.Comment = true
		b.last.Commentary = commentary
	}
	return b
}

// Note attaches commentary to the last appended node.
func (b *Builder) Note(commentary string) *Builder {
	if b.last != nil {
		b.last.Commentary = commentary
	}
	return b
}

// Return sets the value returned by the function end node.
func (b *Builder) Return(value string) *Builder {
	if end, ok := b.f.End().Stmt.(*domain.FunctionEnd); ok {
		end.Value = value
	}
	return b
}

// Last returns the most recently appended node, nil if none.
func (b *Builder) Last() *domain.Node {
	return b.last
}

// Flowchart returns the flowchart being built, even if an error occurred.
func (b *Builder) Flowchart() *domain.Flowchart {
	return b.f
}

// Build returns the flowchart or the first error met while appending.
func (b *Builder) Build() (*domain.Flowchart, error) {
	if *b.err != nil {
		return nil, *b.err
	}
	return b.f, nil
}

// ProgramBuilder assembles functions into a program.
type ProgramBuilder struct {
	name      string
	headers   []string
	functions []*Builder
}

// Program starts a program builder.
func Program(name string) *ProgramBuilder {
	return &ProgramBuilder{name: name}
}

// Include declares standard headers.
func (p *ProgramBuilder) Include(headers ...string) *ProgramBuilder {
	p.headers = append(p.headers, headers...)
	return p
}

// Func adds a function in emission order.
func (p *ProgramBuilder) Func(b *Builder) *ProgramBuilder {
	p.functions = append(p.functions, b)
	return p
}

// Build compiles the builders into a program.
func (p *ProgramBuilder) Build() (*domain.Program, error) {
	charts := make([]*domain.Flowchart, 0, len(p.functions))
	for _, b := range p.functions {
		f, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build function: %w", err)
		}
		charts = append(charts, f)
	}
	return domain.RestoreProgram(p.name, p.headers, charts...)
}
