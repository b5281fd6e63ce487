package ports

import (
	"context"
	"time"
)

// Artifact is the generated output handed to the build and debug collaborators.
type Artifact struct {
	Name        string
	Source      string
	Breakpoints string
}

// ArtifactSink receives generated artifacts.
type ArtifactSink interface {
	// Write stores the artifact and reports whether anything changed.
	// Sinks skip rewriting identical content so a live debug session keeps
	// its file handles.
	Write(ctx context.Context, a Artifact) (changed bool, err error)
}

// BuildResult describes one compiler run.
type BuildResult struct {
	Command  []string
	Output   string
	Binary   string
	Duration time.Duration
}

// Builder compiles a written source file.
type Builder interface {
	Build(ctx context.Context, sourcePath string) (*BuildResult, error)
}
