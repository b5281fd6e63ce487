package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/ports"
)

// ErrReadOnly is returned by writes through a read-only store.
var ErrReadOnly = errors.New("store is read-only")

type readOnlyMiddleware struct {
	next ports.ProgramStore
}

// NewReadOnlyMiddleware rejects Save and Delete with ErrReadOnly.
func NewReadOnlyMiddleware() Middleware {
	return func(next ports.ProgramStore) ports.ProgramStore {
		return &readOnlyMiddleware{next: next}
	}
}

func (m *readOnlyMiddleware) Save(ctx context.Context, p *domain.Program) error {
	return ErrReadOnly
}

func (m *readOnlyMiddleware) Load(ctx context.Context, name string) (*domain.Program, error) {
	return m.next.Load(ctx, name)
}

func (m *readOnlyMiddleware) Delete(ctx context.Context, name string) error {
	return ErrReadOnly
}

func (m *readOnlyMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
