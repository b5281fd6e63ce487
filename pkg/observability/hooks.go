package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/flowc/pkg/domain"
)

// LogHooks returns hooks that write every event to the logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			logger.DebugContext(ctx, "generate",
				"program", e.Program,
				"functions", e.Functions,
				"lines", e.Lines,
				"breakpoints", e.Breakpoints,
				"duration", e.Duration,
			)
		},
		OnLineHit: func(ctx context.Context, e *domain.LineHitEvent) {
			logger.InfoContext(ctx, "line_hit",
				"session", e.SessionID,
				"line", e.Line,
				"node", e.Node,
				"function", e.Function,
			)
		},
		OnVariable: func(ctx context.Context, e *domain.VariableEvent) {
			logger.DebugContext(ctx, "variable", "session", e.SessionID, "name", e.Name, "value", e.Value)
		},
	}
}

// Combine fans every event out to all the given hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			for _, h := range hooks {
				if h.OnGenerate != nil {
					h.OnGenerate(ctx, e)
				}
			}
		},
		OnLineHit: func(ctx context.Context, e *domain.LineHitEvent) {
			for _, h := range hooks {
				if h.OnLineHit != nil {
					h.OnLineHit(ctx, e)
				}
			}
		},
		OnVariable: func(ctx context.Context, e *domain.VariableEvent) {
			for _, h := range hooks {
				if h.OnVariable != nil {
					h.OnVariable(ctx, e)
				}
			}
		},
	}
}
