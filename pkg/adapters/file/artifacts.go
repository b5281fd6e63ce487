package file

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/flowc/internal/logging"
	"github.com/aretw0/flowc/pkg/ports"
)

// ArtifactWriter implements ports.ArtifactSink on disk: NAME.c holds the
// source and NAME.gdb the breakpoint directives.
type ArtifactWriter struct {
	Dir    string
	logger *slog.Logger
}

// WriterOption configures an ArtifactWriter.
type WriterOption func(*ArtifactWriter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) WriterOption {
	return func(w *ArtifactWriter) {
		w.logger = logger
	}
}

// NewArtifactWriter writes into dir, "." when empty.
func NewArtifactWriter(dir string, opts ...WriterOption) *ArtifactWriter {
	if dir == "" {
		dir = "."
	}
	w := &ArtifactWriter{Dir: dir, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SourcePath is where the source of the named artifact goes.
func (w *ArtifactWriter) SourcePath(name string) string {
	return filepath.Join(w.Dir, name+".c")
}

// BreakpointPath is where the breakpoint directives of the named artifact go.
func (w *ArtifactWriter) BreakpointPath(name string) string {
	return filepath.Join(w.Dir, name+".gdb")
}

// Write rewrites only the files whose content changed.
func (w *ArtifactWriter) Write(ctx context.Context, a ports.Artifact) (bool, error) {
	if a.Name == "" {
		return false, fmt.Errorf("artifact name cannot be empty")
	}
	src, err := w.writeIfChanged(w.SourcePath(a.Name), a.Source)
	if err != nil {
		return false, err
	}
	bp, err := w.writeIfChanged(w.BreakpointPath(a.Name), a.Breakpoints)
	if err != nil {
		return src, err
	}
	return src || bp, nil
}

func (w *ArtifactWriter) writeIfChanged(path, content string) (bool, error) {
	current, err := os.ReadFile(path)
	if err == nil && bytes.Equal(current, []byte(content)) {
		w.logger.Info("artifact unchanged", "path", path)
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := writeAtomic(path, []byte(content)); err != nil {
		return false, err
	}
	w.logger.Info("artifact written", "path", path, "bytes", len(content))
	return true, nil
}
