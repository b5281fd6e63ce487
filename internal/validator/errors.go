package validator

import (
	"fmt"

	"github.com/aretw0/flowc/pkg/domain"
)

// ValidationError describes one node that blocks generation.
type ValidationError struct {
	Function string
	Node     domain.Tag
	Kind     domain.Kind
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: node %s (%s): %s", e.Function, e.Node, e.Kind, e.Reason)
}

// AggregateError collects every readiness failure of a program.
// It matches domain.ErrNotReady with errors.Is.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() error {
	return domain.ErrNotReady
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
