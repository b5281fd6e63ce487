package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/ports"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Program
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store, optionally seeded with programs.
func NewStore(programs ...*domain.Program) *Store {
	s := &Store{
		data: make(map[string]*domain.Program),
	}
	for _, p := range programs {
		s.data[p.Name] = p.Clone()
	}
	return s
}

// Save persists a deep copy of the program.
func (s *Store) Save(ctx context.Context, p *domain.Program) error {
	copied := p.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[p.Name] = copied
	return nil
}

// Load returns a copy so callers can't mutate store state by pointer.
func (s *Store) Load(ctx context.Context, name string) (*domain.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[name]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return p.Clone(), nil
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored program names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Artifacts implements ports.ArtifactSink in memory.
type Artifacts struct {
	data map[string]ports.Artifact
	mu   sync.RWMutex
}

// NewArtifacts creates an empty sink.
func NewArtifacts() *Artifacts {
	return &Artifacts{data: make(map[string]ports.Artifact)}
}

// Write keeps the artifact and reports whether it differs from the last one.
func (a *Artifacts) Write(ctx context.Context, art ports.Artifact) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if prev, ok := a.data[art.Name]; ok && prev == art {
		return false, nil
	}
	a.data[art.Name] = art
	return true, nil
}

// Get returns the last artifact written under name.
func (a *Artifacts) Get(name string) (ports.Artifact, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	art, ok := a.data[name]
	return art, ok
}
