package validator

import (
	"fmt"

	"github.com/aretw0/flowc/pkg/domain"
)

// Ready reports whether every function of p can be generated. It returns
// an *AggregateError listing each uninitialized node, or nil.
func Ready(p *domain.Program) error {
	var errs []error
	for _, f := range p.Functions() {
		for _, n := range f.Uninitialized() {
			errs = append(errs, &ValidationError{
				Function: f.Name(),
				Node:     n.Tag,
				Kind:     n.Kind(),
				Reason:   "missing required fields",
			})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Severity ranks structural findings.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a structural finding. Structural problems never block generation
// (the generator skips what it cannot reach) but editors surface them.
type Issue struct {
	Severity Severity   `json:"severity"`
	Function string     `json:"function"`
	Node     domain.Tag `json:"node,omitempty"`
	Message  string     `json:"message"`
}

func (i Issue) String() string {
	if i.Node == domain.NoTag {
		return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Function, i.Message)
	}
	return fmt.Sprintf("[%s] %s: node %s: %s", i.Severity, i.Function, i.Node, i.Message)
}

// Check walks every function and reports dangling connections, nodes
// unreachable from the start node, conditionals without a merge connector,
// nodes with more than one forward predecessor and inputs of undeclared
// variables.
func Check(p *domain.Program) []Issue {
	var issues []Issue
	for _, f := range p.Functions() {
		issues = append(issues, checkFunction(f)...)
	}
	return issues
}

func checkFunction(f *domain.Flowchart) []Issue {
	var issues []Issue
	report := func(sev Severity, tag domain.Tag, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Function: f.Name(), Node: tag, Message: fmt.Sprintf(format, args...)})
	}

	for _, c := range f.Connections() {
		_, src := f.FindNode(c.Src)
		_, dst := f.FindNode(c.Dst)
		if !src || !dst {
			report(SeverityWarning, domain.NoTag, "dangling connection %s", c)
		}
	}

	// breadth first from the start node, like a crawler over transitions
	visited := map[domain.Tag]bool{}
	queue := []domain.Tag{f.Root().Tag}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, c := range f.Outgoing(cur) {
			if _, ok := f.FindNode(c.Dst); ok && !visited[c.Dst] {
				queue = append(queue, c.Dst)
			}
		}
	}

	for _, n := range f.Nodes() {
		if !visited[n.Tag] {
			report(SeverityWarning, n.Tag, "%s is unreachable from the start node", n.Kind())
		}
		switch s := n.Stmt.(type) {
		case *domain.Conditional:
			if _, ok := f.Connector(n.Tag); !ok {
				report(SeverityError, n.Tag, "conditional has no merge connector")
			}
		case *domain.Connector:
			continue
		case *domain.Input:
			if !f.Disabled(n.Tag) && s.Name != "" {
				if _, ok := f.Declared(s.Name); !ok {
					report(SeverityWarning, n.Tag, "%s is not declared", s.Name)
				}
			}
		}
		forward := 0
		for _, c := range f.Incoming(n.Tag) {
			if !f.IsBackEdge(c) {
				forward++
			}
		}
		if forward > 1 {
			report(SeverityError, n.Tag, "%d forward connections reach this node", forward)
		}
	}
	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
