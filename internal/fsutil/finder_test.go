package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("a = b\n"), 0o600))
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.tac"))
	writeFile(t, filepath.Join(root, "nested", "b.tac"))
	writeFile(t, filepath.Join(root, "a.tac"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	files, err := FindFilesByExtension(root, SourceExtension)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.tac"),
		filepath.Join(root, "nested", "b.tac"),
		filepath.Join(root, "z.tac"),
	}, files)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}

func TestResolveInputs(t *testing.T) {
	root := t.TempDir()
	single := filepath.Join(root, "prog.txt")
	writeFile(t, single)

	t.Run("file", func(t *testing.T) {
		files, err := ResolveInputs(single)
		require.NoError(t, err)
		assert.Equal(t, []string{single}, files)
	})

	t.Run("directory without sources", func(t *testing.T) {
		_, err := ResolveInputs(root)
		assert.ErrorContains(t, err, "no .tac files found")
	})

	t.Run("directory", func(t *testing.T) {
		writeFile(t, filepath.Join(root, "one.tac"))
		files, err := ResolveInputs(root)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "one.tac")}, files)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ResolveInputs(filepath.Join(root, "nope"))
		assert.ErrorContains(t, err, "cannot read input")
	})
}
