package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestNewTranslations(t *testing.T) {
	t.Run("loads embedded locales", func(t *testing.T) {
		// Act
		trans, err := NewTranslations("en", "")

		// Assert
		require.NoError(t, err)
		assert.NotContains(t, trans.GetMessage("app.usage", 0, nil), "Translation missing")
	})

	t.Run("fails with empty language", func(t *testing.T) {
		trans, err := NewTranslations("", "")

		assert.Error(t, err)
		assert.Nil(t, trans)
	})

	t.Run("external files override embedded messages", func(t *testing.T) {
		dir := t.TempDir()
		createTestFile(t, dir, "active.en.toml", `
		["app.usage"]
		other = "custom usage"
		`)

		trans, err := NewTranslations("en", dir)

		require.NoError(t, err)
		assert.Equal(t, "custom usage", trans.GetMessage("app.usage", 0, nil))
	})

	t.Run("fails on malformed external file", func(t *testing.T) {
		dir := t.TempDir()
		createTestFile(t, dir, "active.en.toml", `[broken`)

		_, err := NewTranslations("en", dir)

		assert.Error(t, err)
	})
}

func TestSetLanguage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	assert.NoError(t, trans.SetLanguage("es"))
	assert.Error(t, trans.SetLanguage("fr"))
}

func TestGetMessage(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, dir, "active.es.toml", `
	[Welcome]
	one = "Bienvenido"
	other = "Bienvenidos"

	[Greeting]
	other = "Hola {{.Name}}"
	`)

	trans, err := NewTranslations("es", dir)
	require.NoError(t, err)

	t.Run("plural forms", func(t *testing.T) {
		assert.Equal(t, "Bienvenido", trans.GetMessage("Welcome", 1, nil))
		assert.Equal(t, "Bienvenidos", trans.GetMessage("Welcome", 2, nil))
	})

	t.Run("template data", func(t *testing.T) {
		assert.Equal(t, "Hola Ana", trans.GetMessage("Greeting", 0, map[string]any{"Name": "Ana"}))
		assert.Equal(t, "Hola Ana", trans.GetMessage("Greeting", 0, struct{ Name string }{"Ana"}))
	})

	t.Run("missing message", func(t *testing.T) {
		assert.Equal(t, "Translation missing: Nope", trans.GetMessage("Nope", 0, nil))
	})
}

func TestLocalesHaveSameKeys(t *testing.T) {
	en, err := NewTranslations("en", "")
	require.NoError(t, err)
	es, err := NewTranslations("es", "")
	require.NoError(t, err)

	for _, id := range []string{"app.usage", "promote.usage", "error.not_in_git_repo", "ui.pr_created"} {
		assert.NotContains(t, en.GetMessage(id, 0, nil), "Translation missing", id)
		assert.NotContains(t, es.GetMessage(id, 0, nil), "Translation missing", id)
	}
}
