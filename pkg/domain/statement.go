package domain

import (
	"slices"
	"strings"
)

// Kind names a node variant. The values double as the "type" key of
// persisted documents.
type Kind string

const (
	KindRoot          Kind = "root"
	KindFunctionStart Kind = "function_start"
	KindFunctionEnd   Kind = "function_end"
	KindDeclaration   Kind = "declaration"
	KindDeclarations  Kind = "declarations"
	KindAssignment    Kind = "assignment"
	KindConditional   Kind = "conditional"
	KindForLoop       Kind = "for_loop"
	KindWhileLoop     Kind = "while_loop"
	KindDoWhileLoop   Kind = "do_while_loop"
	KindInput         Kind = "input"
	KindOutput        Kind = "output"
	KindFunctionCall  Kind = "function_call"
	KindCodeSnippet   Kind = "code_snippet"
	KindConnector     Kind = "connector"
)

// Shape is the rendering hint for a node box.
type Shape string

const (
	ShapeTerminal   Shape = "terminal"   // rounded box: function start/end
	ShapeProcess    Shape = "process"    // rectangle
	ShapeDecision   Shape = "decision"   // diamond
	ShapeLoop       Shape = "loop"       // hexagon
	ShapeIO         Shape = "io"         // parallelogram
	ShapeSubroutine Shape = "subroutine" // double-sided rectangle
	ShapeSnippet    Shape = "snippet"
	ShapeConnector  Shape = "connector" // small circle
)

// Statement is the variant payload of a node.
type Statement interface {
	Kind() Kind
	Shape() Shape
	// Slots is the number of outgoing slots the node exposes.
	Slots() int
	// Initialized reports whether every required field is filled in.
	Initialized() bool

	clone() Statement
}

// IsLoop reports whether k is one of the loop variants.
func IsLoop(k Kind) bool {
	return k == KindForLoop || k == KindWhileLoop || k == KindDoWhileLoop
}

// IsBlock reports whether nodes of kind k open a nested scope.
func IsBlock(k Kind) bool {
	return k == KindConditional || IsLoop(k)
}

// Slot indexes shared by the branching variants.
const (
	SlotNext  = 0 // single exit
	SlotFalse = 0 // conditional false branch
	SlotTrue  = 1 // conditional true branch
	SlotExit  = 0 // loop exit
	SlotBody  = 1 // loop body, and the back-edge destination
)

// Param is one formal parameter of a function.
type Param struct {
	Type string `json:"type" yaml:"type" mapstructure:"type"`
	Name string `json:"name" yaml:"name" mapstructure:"name"`
}

// FunctionStart opens a function body: TYPE NAME(PARAMS) {
type FunctionStart struct {
	Name       string  `json:"name" yaml:"name" mapstructure:"name"`
	ReturnType string  `json:"return_type" yaml:"return_type" mapstructure:"return_type"`
	Params     []Param `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params,omitempty"`
}

func (s *FunctionStart) Kind() Kind        { return KindFunctionStart }
func (s *FunctionStart) Shape() Shape      { return ShapeTerminal }
func (s *FunctionStart) Slots() int        { return 1 }
func (s *FunctionStart) Initialized() bool { return s.Name != "" && s.ReturnType != "" }
func (s *FunctionStart) clone() Statement {
	c := *s
	c.Params = slices.Clone(s.Params)
	return &c
}

// Signature renders the C function head without the opening brace.
func (s *FunctionStart) Signature() string {
	params := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		params = append(params, strings.TrimSpace(p.Type+" "+p.Name))
	}
	return s.ReturnType + " " + s.Name + "(" + strings.Join(params, ", ") + ")"
}

// Root is the distinguished start of the program entry point.
type Root struct {
	FunctionStart `mapstructure:",squash" yaml:",inline"`
}

// NewRoot returns the start node of int main().
func NewRoot() *Root {
	return &Root{FunctionStart{Name: "main", ReturnType: "int"}}
}

func (s *Root) Kind() Kind { return KindRoot }
func (s *Root) clone() Statement {
	c := *s
	c.Params = slices.Clone(s.Params)
	return &c
}

// FunctionEnd closes a function: return VALUE; }
type FunctionEnd struct {
	Value string `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value,omitempty"`
}

func (s *FunctionEnd) Kind() Kind        { return KindFunctionEnd }
func (s *FunctionEnd) Shape() Shape      { return ShapeTerminal }
func (s *FunctionEnd) Slots() int        { return 0 }
func (s *FunctionEnd) Initialized() bool { return true }
func (s *FunctionEnd) clone() Statement  { c := *s; return &c }

// Declaration introduces one variable.
type Declaration struct {
	Name      string `json:"name" yaml:"name" mapstructure:"name"`
	Type      string `json:"type" yaml:"type" mapstructure:"type"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value,omitempty"`
	IsArray   bool   `json:"is_array,omitempty" yaml:"is_array,omitempty" mapstructure:"is_array,omitempty"`
	ArraySize string `json:"array_size,omitempty" yaml:"array_size,omitempty" mapstructure:"array_size,omitempty"`
	IsPointer bool   `json:"is_pointer,omitempty" yaml:"is_pointer,omitempty" mapstructure:"is_pointer,omitempty"`
	IsStatic  bool   `json:"is_static,omitempty" yaml:"is_static,omitempty" mapstructure:"is_static,omitempty"`
}

func (s *Declaration) Kind() Kind   { return KindDeclaration }
func (s *Declaration) Shape() Shape { return ShapeProcess }
func (s *Declaration) Slots() int   { return 1 }
func (s *Declaration) Initialized() bool {
	if s.Name == "" || s.Type == "" {
		return false
	}
	// an unsized array needs an initializer to size it
	return !s.IsArray || s.ArraySize != "" || s.Value != ""
}
func (s *Declaration) clone() Statement { c := *s; return &c }

// Declarations introduces several variables in one box.
type Declarations struct {
	Vars []Declaration `json:"vars" yaml:"vars" mapstructure:"vars"`
}

func (s *Declarations) Kind() Kind   { return KindDeclarations }
func (s *Declarations) Shape() Shape { return ShapeProcess }
func (s *Declarations) Slots() int   { return 1 }
func (s *Declarations) Initialized() bool {
	if len(s.Vars) == 0 {
		return false
	}
	for i := range s.Vars {
		if !s.Vars[i].Initialized() {
			return false
		}
	}
	return true
}
func (s *Declarations) clone() Statement {
	return &Declarations{Vars: slices.Clone(s.Vars)}
}

// Assignment stores a value: NAME[OFFSET] = VALUE;
type Assignment struct {
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Offset string `json:"offset,omitempty" yaml:"offset,omitempty" mapstructure:"offset,omitempty"`
	Value  string `json:"value" yaml:"value" mapstructure:"value"`
}

func (s *Assignment) Kind() Kind        { return KindAssignment }
func (s *Assignment) Shape() Shape      { return ShapeProcess }
func (s *Assignment) Slots() int        { return 1 }
func (s *Assignment) Initialized() bool { return s.Name != "" && s.Value != "" }
func (s *Assignment) clone() Statement  { c := *s; return &c }

// Conditional branches on COND. Slot 1 is the true branch, slot 0 the false one.
type Conditional struct {
	Condition string `json:"condition" yaml:"condition" mapstructure:"condition"`
}

func (s *Conditional) Kind() Kind        { return KindConditional }
func (s *Conditional) Shape() Shape      { return ShapeDecision }
func (s *Conditional) Slots() int        { return 2 }
func (s *Conditional) Initialized() bool { return s.Condition != "" }
func (s *Conditional) clone() Statement  { c := *s; return &c }

// ForLoop is a countable loop: for (int VAR = START; COND; UPDATE)
type ForLoop struct {
	Var       string `json:"var" yaml:"var" mapstructure:"var"`
	Start     string `json:"start" yaml:"start" mapstructure:"start"`
	Condition string `json:"condition" yaml:"condition" mapstructure:"condition"`
	Update    string `json:"update" yaml:"update" mapstructure:"update"`
}

func (s *ForLoop) Kind() Kind   { return KindForLoop }
func (s *ForLoop) Shape() Shape { return ShapeLoop }
func (s *ForLoop) Slots() int   { return 2 }
func (s *ForLoop) Initialized() bool {
	return s.Var != "" && s.Start != "" && s.Condition != "" && s.Update != ""
}
func (s *ForLoop) clone() Statement { c := *s; return &c }

// WhileLoop tests COND before each iteration.
type WhileLoop struct {
	Condition string `json:"condition" yaml:"condition" mapstructure:"condition"`
}

func (s *WhileLoop) Kind() Kind        { return KindWhileLoop }
func (s *WhileLoop) Shape() Shape      { return ShapeLoop }
func (s *WhileLoop) Slots() int        { return 2 }
func (s *WhileLoop) Initialized() bool { return s.Condition != "" }
func (s *WhileLoop) clone() Statement  { c := *s; return &c }

// DoWhileLoop tests COND after each iteration.
type DoWhileLoop struct {
	Condition string `json:"condition" yaml:"condition" mapstructure:"condition"`
}

func (s *DoWhileLoop) Kind() Kind        { return KindDoWhileLoop }
func (s *DoWhileLoop) Shape() Shape      { return ShapeLoop }
func (s *DoWhileLoop) Slots() int        { return 2 }
func (s *DoWhileLoop) Initialized() bool { return s.Condition != "" }
func (s *DoWhileLoop) clone() Statement  { c := *s; return &c }

// Input reads a variable from stdin. Format is derived from the declared
// type when empty.
type Input struct {
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format,omitempty"`
}

func (s *Input) Kind() Kind        { return KindInput }
func (s *Input) Shape() Shape      { return ShapeIO }
func (s *Input) Slots() int        { return 1 }
func (s *Input) Initialized() bool { return s.Name != "" }
func (s *Input) clone() Statement  { c := *s; return &c }

// Output prints with printf.
type Output struct {
	Format string   `json:"format" yaml:"format" mapstructure:"format"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args,omitempty"`
}

func (s *Output) Kind() Kind        { return KindOutput }
func (s *Output) Shape() Shape      { return ShapeIO }
func (s *Output) Slots() int        { return 1 }
func (s *Output) Initialized() bool { return s.Format != "" }
func (s *Output) clone() Statement {
	return &Output{Format: s.Format, Args: slices.Clone(s.Args)}
}

// FunctionCall calls NAME(ARGS), optionally storing the result.
type FunctionCall struct {
	Name   string   `json:"name" yaml:"name" mapstructure:"name"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args,omitempty"`
	Result string   `json:"result,omitempty" yaml:"result,omitempty" mapstructure:"result,omitempty"`
}

func (s *FunctionCall) Kind() Kind        { return KindFunctionCall }
func (s *FunctionCall) Shape() Shape      { return ShapeSubroutine }
func (s *FunctionCall) Slots() int        { return 1 }
func (s *FunctionCall) Initialized() bool { return s.Name != "" }
func (s *FunctionCall) clone() Statement {
	return &FunctionCall{Name: s.Name, Args: slices.Clone(s.Args), Result: s.Result}
}

// CodeSnippet is raw C pasted verbatim, one emitted line per snippet line.
type CodeSnippet struct {
	Code string `json:"code" yaml:"code" mapstructure:"code"`
}

func (s *CodeSnippet) Kind() Kind        { return KindCodeSnippet }
func (s *CodeSnippet) Shape() Shape      { return ShapeSnippet }
func (s *CodeSnippet) Slots() int        { return 1 }
func (s *CodeSnippet) Initialized() bool { return strings.TrimSpace(s.Code) != "" }
func (s *CodeSnippet) clone() Statement  { c := *s; return &c }

// Connector is the merge point where both branches of Conditional reunite.
type Connector struct {
	Conditional Tag `json:"conditional" yaml:"conditional" mapstructure:"conditional"`
}

func (s *Connector) Kind() Kind        { return KindConnector }
func (s *Connector) Shape() Shape      { return ShapeConnector }
func (s *Connector) Slots() int        { return 1 }
func (s *Connector) Initialized() bool { return s.Conditional != NoTag }
func (s *Connector) clone() Statement  { c := *s; return &c }

// NewStatement returns a zero statement of kind k, or nil for unknown kinds.
func NewStatement(k Kind) Statement {
	switch k {
	case KindRoot:
		return &Root{}
	case KindFunctionStart:
		return &FunctionStart{}
	case KindFunctionEnd:
		return &FunctionEnd{}
	case KindDeclaration:
		return &Declaration{}
	case KindDeclarations:
		return &Declarations{}
	case KindAssignment:
		return &Assignment{}
	case KindConditional:
		return &Conditional{}
	case KindForLoop:
		return &ForLoop{}
	case KindWhileLoop:
		return &WhileLoop{}
	case KindDoWhileLoop:
		return &DoWhileLoop{}
	case KindInput:
		return &Input{}
	case KindOutput:
		return &Output{}
	case KindFunctionCall:
		return &FunctionCall{}
	case KindCodeSnippet:
		return &CodeSnippet{}
	case KindConnector:
		return &Connector{}
	}
	return nil
}
