package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/flowc/pkg/adapters/file"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunProgramStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewProgram("hello")))
	_, err := os.Stat(filepath.Join(dir, "hello.yaml"))
	require.NoError(t, err)

	// stray files are not programs
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, names)

	assert.Error(t, store.Save(ctx, domain.NewProgram("../escape")))
	_, err = store.Load(ctx, "")
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSaveFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.json")
	require.NoError(t, file.SaveFile(path, domain.NewProgram("j")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "j"`)

	p, err := file.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "j", p.Name)

	_, err = file.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)
}
