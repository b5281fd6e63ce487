package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/flowc/internal/dto"
	"github.com/aretw0/flowc/pkg/domain"
)

const ext = ".yaml"

// Store implements ports.ProgramStore using the local filesystem.
// It stores each program as a YAML document in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".flowc/programs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".flowc", "programs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("program name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid program name %q", name)
	}
	return filepath.Join(s.BasePath, name+ext), nil
}

// Save persists the program atomically.
func (s *Store) Save(ctx context.Context, p *domain.Program) error {
	path, err := s.path(p.Name)
	if err != nil {
		return err
	}
	return SaveFile(path, p)
}

// Load reads a program document.
func (s *Store) Load(ctx context.Context, name string) (*domain.Program, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// Delete removes the program file.
func (s *Store) Delete(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete program file: %w", err)
	}
	return nil
}

// List returns the names of all program files.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "tmp-") {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ext); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// LoadFile reads a program document, YAML or JSON by extension.
func LoadFile(path string) (*domain.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProgramNotFound, path)
		}
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}
	p, err := dto.Unmarshal(data, dto.FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// SaveFile writes a program document atomically, YAML or JSON by extension.
func SaveFile(path string, p *domain.Program) error {
	data, err := dto.Marshal(p, dto.FormatOf(path))
	if err != nil {
		return fmt.Errorf("failed to marshal program: %w", err)
	}
	return writeAtomic(path, data)
}
