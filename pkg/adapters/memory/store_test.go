package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/flowc/pkg/adapters/memory"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunProgramStoreContract(t, store)
}

func TestMemoryStore_Seed(t *testing.T) {
	store := memory.NewStore(domain.NewProgram("b"), domain.NewProgram("a"))
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestArtifacts_SkipUnchanged(t *testing.T) {
	ctx := context.Background()
	sink := memory.NewArtifacts()
	art := ports.Artifact{Name: "p", Source: "int main() {}\n"}

	changed, err := sink.Write(ctx, art)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = sink.Write(ctx, art)
	require.NoError(t, err)
	assert.False(t, changed)

	art.Breakpoints = "break p.c:1\n"
	changed, _ = sink.Write(ctx, art)
	assert.True(t, changed)

	got, ok := sink.Get("p")
	require.True(t, ok)
	assert.Equal(t, art, got)
}
