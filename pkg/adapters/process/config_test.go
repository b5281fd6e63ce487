package process

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadToolchain(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing File Uses Defaults", func(t *testing.T) {
		tc, err := LoadToolchain(filepath.Join(dir, "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultToolchain(), tc)
	})

	t.Run("YAML Overrides", func(t *testing.T) {
		path := filepath.Join(dir, "toolchain.yaml")
		require.NoError(t, os.WriteFile(path, []byte("compiler: clang\nflags: [-g3, -Wall]\noutput: bin/app\nenv:\n  LANG: C\n"), 0644))

		tc, err := LoadToolchain(path)
		require.NoError(t, err)
		assert.Equal(t, "clang", tc.Compiler)
		assert.Equal(t, []string{"-g3", "-Wall"}, tc.Flags)
		assert.Equal(t, "gdb", tc.Debugger)
		assert.Equal(t, "bin/app", tc.BinaryFor("x.c"))
		assert.Equal(t, "C", tc.Env["LANG"])
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "toolchain.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"debugger": "lldb"}`), 0644))

		tc, err := LoadToolchain(path)
		require.NoError(t, err)
		assert.Equal(t, "gcc", tc.Compiler)
		assert.Equal(t, []string{"lldb", "-q", "-x", "p.gdb", "p"}, tc.DebugCommand("p", "p.gdb"))
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("flags: {"), 0644))
		_, err := LoadToolchain(path)
		assert.Error(t, err)
	})
}
