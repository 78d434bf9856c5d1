package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAllowlist(t *testing.T) {
	t.Run("reads names, skipping blanks and comments", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "allowlist.txt")
		content := "# payers tracked by the filtered index\nBCBS of NC\n\n  NC STATE HEALTH PLAN  \n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		a, err := LoadAllowlist(path)
		require.NoError(t, err)

		assert.Len(t, a, 2)
		assert.True(t, a.Contains("BCBS of NC"))
		assert.True(t, a.Contains("NC STATE HEALTH PLAN"))
		assert.False(t, a.Contains("# payers tracked by the filtered index"))
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadAllowlist(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}
