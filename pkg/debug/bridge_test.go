package debug_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/flowc/pkg/codegen"
	"github.com/aretw0/flowc/pkg/debug"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter generates:
//
//	1 int main() {
//	2   int x = 0;
//	3   while (x < 3) {
//	4     x = x + 1;
//	5   }
//	6   return 0;
//	7 }
func counter(t *testing.T) (*codegen.Listing, domain.Tag, domain.Tag) {
	t.Helper()
	b := dsl.Main().Declare("int", "x", "0").Break()
	decl := b.Last().Tag
	var step domain.Tag
	b.While("x < 3", func(body *dsl.Builder) {
		body.Assign("x", "x + 1").Break()
		step = body.Last().Tag
	})
	f, err := b.Build()
	require.NoError(t, err)
	return codegen.Generate(f), decl, step
}

func TestBridge_Hit(t *testing.T) {
	listing, decl, step := counter(t)

	var hits []*domain.LineHitEvent
	bridge := debug.NewBridge(listing, debug.WithSessionID("s1"), debug.WithHooks(domain.LifecycleHooks{
		OnLineHit: func(_ context.Context, e *domain.LineHitEvent) { hits = append(hits, e) },
	}))

	assert.Equal(t, "s1", bridge.SessionID())
	assert.Equal(t, []int{2, 4}, bridge.Breakpoints())
	assert.Equal(t, []int{4}, bridge.LinesOf(step))
	assert.Equal(t, decl, bridge.NodeAt(2))
	assert.Equal(t, domain.NoTag, bridge.NodeAt(5), "closing brace is synthetic")

	ctx := context.Background()
	assert.Equal(t, decl, bridge.Hit(ctx, 2))
	assert.Equal(t, step, bridge.Hit(ctx, 4))
	assert.Equal(t, domain.NoTag, bridge.Hit(ctx, 99))

	require.Len(t, hits, 3)
	assert.Equal(t, "s1", hits[1].SessionID)
	assert.Equal(t, 4, hits[1].Line)
	assert.Equal(t, step, hits[1].Node)
	assert.Equal(t, "main", hits[1].Function)
	assert.Equal(t, domain.EventLineHit, hits[1].Type)

	snap := bridge.Snapshot()
	assert.Equal(t, 99, snap.Line)
	assert.Equal(t, 3, snap.Hits)
	assert.Equal(t, domain.NoTag, snap.Node)
}

func TestBridge_Variables(t *testing.T) {
	listing, _, step := counter(t)

	var events int
	bridge := debug.NewBridge(listing, debug.WithHooks(domain.LifecycleHooks{
		OnVariable: func(context.Context, *domain.VariableEvent) { events++ },
	}))
	assert.NotEmpty(t, bridge.SessionID())

	ctx := context.Background()
	bridge.Hit(ctx, 4)
	bridge.Bind(ctx, "x", "1")
	bridge.Bind(ctx, "argc", "1")
	bridge.Bind(ctx, "x", "2")

	snap := bridge.Snapshot()
	assert.Equal(t, step, snap.Node)
	assert.Equal(t, "main", snap.Function)
	assert.Equal(t, []debug.Variable{{Name: "argc", Value: "1"}, {Name: "x", Value: "2"}}, snap.Variables)
	assert.Equal(t, 3, events)

	bridge.Reset()
	snap = bridge.Snapshot()
	assert.Zero(t, snap.Line)
	assert.Zero(t, snap.Hits)
	assert.Empty(t, snap.Variables)
}

func TestBridge_Concurrent(t *testing.T) {
	listing, _, _ := counter(t)
	bridge := debug.NewBridge(listing)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for line := 1; line <= listing.Len(); line++ {
				bridge.Hit(ctx, line)
				bridge.Bind(ctx, "x", "0")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = bridge.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8*listing.Len(), bridge.Snapshot().Hits)
}
