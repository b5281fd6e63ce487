package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/aretw0/flowc/internal/logging"
	"github.com/aretw0/flowc/pkg/ports"
)

// ErrBuildFailed is returned when the compiler exits with an error.
var ErrBuildFailed = errors.New("build failed")

// Builder implements ports.Builder by running the configured compiler.
type Builder struct {
	toolchain Toolchain
	baseDir   string
	logger    *slog.Logger
}

// BuilderOption configures the builder.
type BuilderOption func(*Builder)

// WithBaseDir sets the working directory for the compiler.
func WithBaseDir(dir string) BuilderOption {
	return func(b *Builder) {
		b.baseDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a builder for the toolchain.
func NewBuilder(tc Toolchain, opts ...BuilderOption) *Builder {
	b := &Builder{toolchain: tc, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Command returns the compiler invocation for a source file.
func (b *Builder) Command(sourcePath string) []string {
	args := []string{b.toolchain.Compiler}
	args = append(args, b.toolchain.Flags...)
	return append(args, "-o", b.toolchain.BinaryFor(sourcePath), sourcePath)
}

// Build compiles sourcePath. Cancelling ctx kills the compiler.
func (b *Builder) Build(ctx context.Context, sourcePath string) (*ports.BuildResult, error) {
	argv := b.Command(sourcePath)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.WaitDelay = time.Second
	cmd.Dir = b.baseDir
	cmd.Env = cmd.Environ()
	for k, v := range b.toolchain.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	res := &ports.BuildResult{
		Command:  argv,
		Output:   out.String(),
		Binary:   b.toolchain.BinaryFor(sourcePath),
		Duration: time.Since(start),
	}
	if b.baseDir != "" && !filepath.IsAbs(res.Binary) {
		res.Binary = filepath.Join(b.baseDir, res.Binary)
	}

	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		b.logger.Warn("build failed", "source", sourcePath, "err", err)
		return res, fmt.Errorf("%w: %v: %s", ErrBuildFailed, err, out.String())
	}
	b.logger.Info("build finished", "binary", res.Binary, "duration", res.Duration)
	return res, nil
}
