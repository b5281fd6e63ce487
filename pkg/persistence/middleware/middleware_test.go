package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/flowc/pkg/adapters/memory"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/persistence/middleware"
	"github.com/aretw0/flowc/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_Contract(t *testing.T) {
	store := middleware.NewLoggingMiddleware(slog.New(slog.DiscardHandler))(memory.NewStore())
	ports.RunProgramStoreContract(t, store)
}

func TestLoggingMiddleware_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.NewLoggingMiddleware(logger)(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewProgram("demo")))
	_, err := store.Load(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrProgramNotFound)

	out := buf.String()
	assert.Contains(t, out, "op=save")
	assert.Contains(t, out, "program=demo")
	assert.Contains(t, out, "op=load")
	assert.NotContains(t, out, "level=WARN")
}

func TestReadOnlyMiddleware(t *testing.T) {
	ctx := context.Background()
	base := memory.NewStore(domain.NewProgram("demo"))
	store := middleware.Chain(base, middleware.NewReadOnlyMiddleware())

	p, err := store.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Name)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo"}, names)

	assert.ErrorIs(t, store.Save(ctx, domain.NewProgram("other")), middleware.ErrReadOnly)
	assert.ErrorIs(t, store.Delete(ctx, "demo"), middleware.ErrReadOnly)

	_, err = base.Load(ctx, "other")
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.ProgramStore) ports.ProgramStore {
			return &recorder{ProgramStore: next, name: name, calls: &calls}
		}
	}
	store := middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))

	_, _ = store.List(context.Background())
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type recorder struct {
	ports.ProgramStore
	name  string
	calls *[]string
}

func (r *recorder) List(ctx context.Context) ([]string, error) {
	*r.calls = append(*r.calls, r.name)
	return r.ProgramStore.List(ctx)
}
