package flowc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/flowc"
	"github.com/aretw0/flowc/internal/validator"
	"github.com/aretw0/flowc/pkg/adapters/memory"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/dsl"
	"github.com/aretw0/flowc/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(t *testing.T) *domain.Program {
	t.Helper()
	p, err := dsl.Program("counter").
		Func(dsl.Main().
			Declare("int", "i", "0").
			While("i < 3", func(b *dsl.Builder) {
				b.Assign("i", "i + 1").Break()
			})).
		Build()
	require.NoError(t, err)
	return p
}

func TestCompiler_Compile(t *testing.T) {
	var events []*domain.GenerateEvent
	compiler := flowc.New(flowc.WithLifecycleHooks(domain.LifecycleHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) { events = append(events, e) },
	}))

	p := counter(t)
	listing, err := compiler.Compile(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "int main() {\n  int i = 0;\n  while (i < 3) {\n    i = i + 1;\n  }\n  return 0;\n}\n", listing.Source())
	assert.Equal(t, []int{4}, listing.Breakpoints())

	// line mapping is recorded on the nodes
	main, _ := p.Main()
	n, ok := main.NodeAtLine(4)
	require.True(t, ok)
	assert.True(t, n.BreakPoint)

	require.Len(t, events, 1)
	assert.Equal(t, "counter", events[0].Program)
	assert.Equal(t, 7, events[0].Lines)
	assert.Equal(t, 1, events[0].Breakpoints)
	assert.Equal(t, domain.EventGenerate, events[0].Type)
}

func TestCompiler_CompileNotReady(t *testing.T) {
	p, err := dsl.Program("broken").
		Func(dsl.Main().Node(&domain.Conditional{})).
		Build()
	require.NoError(t, err)

	var generated bool
	compiler := flowc.New(flowc.WithLifecycleHooks(domain.LifecycleHooks{
		OnGenerate: func(context.Context, *domain.GenerateEvent) { generated = true },
	}))

	_, err = compiler.Compile(context.Background(), p)
	assert.ErrorIs(t, err, domain.ErrNotReady)
	var agg *validator.AggregateError
	assert.True(t, errors.As(err, &agg))
	assert.False(t, generated)
}

func TestCompiler_Emit(t *testing.T) {
	sink := memory.NewArtifacts()
	compiler := flowc.New(flowc.WithArtifactSink(sink), flowc.WithIndent("    "))
	ctx := context.Background()
	p := counter(t)

	_, changed, err := compiler.Emit(ctx, p)
	require.NoError(t, err)
	assert.True(t, changed)

	art, ok := sink.Get("counter")
	require.True(t, ok)
	assert.Contains(t, art.Source, "\n        i = i + 1;\n")
	assert.Equal(t, "break counter.c:4\n", art.Breakpoints)

	_, changed, err = compiler.Emit(ctx, p)
	require.NoError(t, err)
	assert.False(t, changed, "unchanged program must not rewrite the artifact")

	_, changed, err = flowc.New().Emit(ctx, p)
	require.NoError(t, err)
	assert.False(t, changed)
}

type fakeBuilder struct {
	source string
}

func (b *fakeBuilder) Build(ctx context.Context, sourcePath string) (*ports.BuildResult, error) {
	b.source = sourcePath
	return &ports.BuildResult{Command: []string{"cc", sourcePath}, Binary: "counter"}, nil
}

func TestCompiler_Build(t *testing.T) {
	ctx := context.Background()

	_, err := flowc.New().Build(ctx, counter(t), "counter.c")
	assert.ErrorIs(t, err, flowc.ErrNoBuilder)

	fb := &fakeBuilder{}
	sink := memory.NewArtifacts()
	res, err := flowc.New(flowc.WithBuilder(fb), flowc.WithArtifactSink(sink)).Build(ctx, counter(t), "out/counter.c")
	require.NoError(t, err)
	assert.Equal(t, "out/counter.c", fb.source)
	assert.Equal(t, "counter", res.Binary)
	_, written := sink.Get("counter")
	assert.True(t, written, "build writes the source first")
}

func TestCompiler_Bridge(t *testing.T) {
	var hits int
	compiler := flowc.New(flowc.WithLifecycleHooks(domain.LifecycleHooks{
		OnLineHit: func(context.Context, *domain.LineHitEvent) { hits++ },
	}))
	p := counter(t)
	listing, err := compiler.Compile(context.Background(), p)
	require.NoError(t, err)

	bridge := compiler.Bridge(listing)
	tag := bridge.Hit(context.Background(), 4)

	main, _ := p.Main()
	n, ok := main.NodeAtLine(4)
	require.True(t, ok)
	assert.Equal(t, n.Tag, tag)
	assert.Equal(t, 1, hits)
}
