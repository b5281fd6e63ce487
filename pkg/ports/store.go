package ports

import (
	"context"

	"github.com/aretw0/flowc/pkg/domain"
)

// ProgramStore persists programs by name.
type ProgramStore interface {
	// Save persists the program under p.Name, replacing any previous version.
	// Later mutations of p must not leak into the stored copy.
	Save(ctx context.Context, p *domain.Program) error

	// Load retrieves a program.
	// Returns domain.ErrProgramNotFound if the program does not exist.
	Load(ctx context.Context, name string) (*domain.Program, error)

	// Delete removes a program. Deleting a missing program is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of stored programs.
	List(ctx context.Context) ([]string, error)
}
