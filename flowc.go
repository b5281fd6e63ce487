package flowc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/flowc/internal/logging"
	"github.com/aretw0/flowc/internal/validator"
	"github.com/aretw0/flowc/pkg/codegen"
	"github.com/aretw0/flowc/pkg/debug"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/ports"
)

// ErrNoBuilder is returned by Build when no compiler was configured.
var ErrNoBuilder = errors.New("no builder configured")

// Compiler is the high-level entry point of the library. It checks that a
// program is ready, generates its source, hands the artifact to a sink and
// optionally runs the external compiler on it.
type Compiler struct {
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	genOpts []codegen.Option
	sink    ports.ArtifactSink
	builder ports.Builder
	ext     string
}

// Option defines a functional option for configuring the Compiler.
type Option func(*Compiler)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Compiler) {
		c.hooks = hooks
	}
}

// WithIndent overrides the per-level indentation of generated code.
func WithIndent(indent string) Option {
	return func(c *Compiler) {
		c.genOpts = append(c.genOpts, codegen.WithIndent(indent))
	}
}

// WithArtifactSink sets where Emit writes the generated artifact.
func WithArtifactSink(sink ports.ArtifactSink) Option {
	return func(c *Compiler) {
		c.sink = sink
	}
}

// WithBuilder sets the compiler invoked by Build.
func WithBuilder(b ports.Builder) Option {
	return func(c *Compiler) {
		c.builder = b
	}
}

// New creates a Compiler. Without options it logs nothing and emits nowhere.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger: logging.NewNop(),
		ext:    ".c",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile generates the source of a ready program and records the line
// mapping on its nodes. Programs with uninitialized nodes are rejected with
// an error wrapping domain.ErrNotReady.
func (c *Compiler) Compile(ctx context.Context, p *domain.Program) (*codegen.Listing, error) {
	logger := c.logger.With("program", p.Name)
	if err := validator.Ready(p); err != nil {
		logger.Warn("program not ready", "err", err)
		return nil, err
	}

	start := time.Now()
	listing := codegen.GenerateProgram(p, c.genOpts...)
	listing.Apply(p.Functions()...)
	elapsed := time.Since(start)

	breaks := len(listing.Breakpoints())
	logger.Debug("generated source",
		"functions", len(p.Functions()),
		"lines", listing.Len(),
		"breakpoints", breaks,
	)
	if c.hooks.OnGenerate != nil {
		c.hooks.OnGenerate(ctx, &domain.GenerateEvent{
			EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventGenerate},
			Program:     p.Name,
			Functions:   len(p.Functions()),
			Lines:       listing.Len(),
			Breakpoints: breaks,
			Duration:    elapsed,
		})
	}
	return listing, nil
}

// Artifact compiles p into the source text plus its breakpoint directives.
func (c *Compiler) Artifact(ctx context.Context, p *domain.Program) (ports.Artifact, *codegen.Listing, error) {
	listing, err := c.Compile(ctx, p)
	if err != nil {
		return ports.Artifact{}, nil, err
	}
	return ports.Artifact{
		Name:        p.Name,
		Source:      listing.Source(),
		Breakpoints: debug.BreakpointFile(listing, p.Name+c.ext),
	}, listing, nil
}

// Emit compiles p and writes the artifact to the configured sink. It
// reports whether the sink content changed; without a sink nothing is
// written and changed is false.
func (c *Compiler) Emit(ctx context.Context, p *domain.Program) (*codegen.Listing, bool, error) {
	art, listing, err := c.Artifact(ctx, p)
	if err != nil {
		return nil, false, err
	}
	if c.sink == nil {
		return listing, false, nil
	}
	changed, err := c.sink.Write(ctx, art)
	if err != nil {
		return nil, false, fmt.Errorf("failed to write artifact: %w", err)
	}
	return listing, changed, nil
}

// Build emits p and runs the builder on the written source file.
func (c *Compiler) Build(ctx context.Context, p *domain.Program, sourcePath string) (*ports.BuildResult, error) {
	if c.builder == nil {
		return nil, ErrNoBuilder
	}
	if _, _, err := c.Emit(ctx, p); err != nil {
		return nil, err
	}
	return c.builder.Build(ctx, sourcePath)
}

// Bridge starts a debug session over a listing produced by Compile. The
// session reports through the compiler's hooks and logger.
func (c *Compiler) Bridge(listing *codegen.Listing, opts ...debug.Option) *debug.Bridge {
	base := []debug.Option{debug.WithLogger(c.logger), debug.WithHooks(c.hooks)}
	return debug.NewBridge(listing, append(base, opts...)...)
}
