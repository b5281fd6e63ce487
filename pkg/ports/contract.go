package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/flowc/pkg/codegen"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunProgramStoreContract runs a suite of tests to verify that a ProgramStore
// implementation adheres to the defined interface contract.
func RunProgramStoreContract(t *testing.T, store ProgramStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	sample := func(name string) *domain.Program {
		main := dsl.Main().
			Declare("int", "n", "").
			Input("n").Break().
			If("n > 0",
				func(t *dsl.Builder) { t.Print(`positive\n`) },
				func(e *dsl.Builder) { e.Print(`other\n`).Disable("unused") },
			)
		p, err := dsl.Program(name).Include("math.h").Func(main).Build()
		require.NoError(t, err)
		return p
	}

	t.Run("Save and Load", func(t *testing.T) {
		p := sample(name)
		require.NoError(t, store.Save(ctx, p), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, name, loaded.Name)
		assert.Equal(t, p.Headers, loaded.Headers)
		assert.True(t, codegen.GenerateProgram(p).Equal(codegen.GenerateProgram(loaded)),
			"loaded program should generate the same listing")
	})

	t.Run("Save Isolates Caller", func(t *testing.T) {
		p := sample(name)
		require.NoError(t, store.Save(ctx, p))

		f, _ := p.Main()
		f.Root().Stmt.(*domain.Root).ReturnType = "void"

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		lf, _ := loaded.Main()
		assert.Equal(t, "int", domain.Signature(lf.Root().Stmt).ReturnType)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sample(name)))
		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound, "Load after Delete should return ErrProgramNotFound")
		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := fmt.Sprintf("%s-1", name)
		id2 := fmt.Sprintf("%s-2", name)
		require.NoError(t, store.Save(ctx, sample(id1)))
		require.NoError(t, store.Save(ctx, sample(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
