package codeowners

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("prefers .github over root", func(t *testing.T) {
		// Arrange
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".github"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".github", "CODEOWNERS"), []byte("* @gh\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "CODEOWNERS"), []byte("* @root\n"), 0644))

		// Act
		rules, path, err := Load(root)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, ".github", "CODEOWNERS"), path)
		require.Len(t, rules, 1)
		assert.Equal(t, []string{"@gh"}, rules[0].Owners)
	})

	t.Run("docs location", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "CODEOWNERS"), []byte("*.md @writers\n"), 0644))

		rules, path, err := Load(root)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "docs", "CODEOWNERS"), path)
		assert.Len(t, rules, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		rules, path, err := Load(t.TempDir())

		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Nil(t, rules)
	})
}
