package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	t.Run("lists only ingestible report files", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"edi.pdf", "central.XLSX", "notes.txt", "registry.json"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

		store, err := NewLocalStore(dir)
		require.NoError(t, err)

		files, err := store.List(ctx)
		require.NoError(t, err)

		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Name)
			assert.Equal(t, int64(1), f.Size)
			assert.False(t, f.LastModified.IsZero())
		}
		assert.ElementsMatch(t, []string{"edi.pdf", "central.XLSX"}, names)
	})

	t.Run("read flattens path traversal to the base name", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "edi.pdf"), []byte("payload"), 0o644))

		store, err := NewLocalStore(dir)
		require.NoError(t, err)

		raw, err := store.ReadFile(ctx, "../../edi.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), raw)
	})

	t.Run("creates the drop directory on first use", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "incoming")

		store, err := NewLocalStore(dir)
		require.NoError(t, err)

		files, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}
