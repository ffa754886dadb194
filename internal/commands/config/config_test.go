package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/urfave/cli/v3"
)

type mockPrompter struct {
	mock.Mock
}

func (m *mockPrompter) Select(title string, options []string, def string) (string, error) {
	args := m.Called(title, options, def)
	return args.String(0), args.Error(1)
}

func (m *mockPrompter) MultiSelect(title string, options []string, selected []string) ([]string, error) {
	args := m.Called(title, options, selected)
	list, _ := args.Get(0).([]string)
	return list, args.Error(1)
}

func (m *mockPrompter) Input(title, def string) (string, error) {
	args := m.Called(title, def)
	return args.String(0), args.Error(1)
}

func (m *mockPrompter) Text(title, def string) (string, error) {
	args := m.Called(title, def)
	return args.String(0), args.Error(1)
}

func (m *mockPrompter) Confirm(title string, def bool) (bool, error) {
	args := m.Called(title, def)
	return args.Bool(0), args.Error(1)
}

func setupConfigTest(t *testing.T) (*config.Config, *i18n.Translations, string) {
	t.Helper()

	prev := ui.Out
	ui.Out = io.Discard
	t.Cleanup(func() { ui.Out = prev })

	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	return cfg, translations, path
}

func runApp(t *testing.T, cmd *cli.Command, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	var buf bytes.Buffer
	app := &cli.Command{Name: "mate-pr", Writer: &buf, Commands: []*cli.Command{cmd}}
	err := app.Run(context.Background(), append([]string{"mate-pr"}, args...))
	return &buf, err
}

func TestShowCommand(t *testing.T) {
	t.Run("should mask secrets in JSON output", func(t *testing.T) {
		// Arrange
		cfg, translations, _ := setupConfigTest(t)
		cfg.GitHubToken = "ghp_abcdefgh1234"
		cfg.PersonalizedReviewers = []string{"alice", "bob"}
		cmd := NewConfigCommandFactory(nil).CreateCommand(translations, cfg)

		// Act
		out, err := runApp(t, cmd, "config", "show", "--json")

		// Assert
		require.NoError(t, err)
		var values map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &values))
		assert.Equal(t, "********1234", values["github_token"])
		assert.Equal(t, "alice,bob", values["personalized_reviewers"])
		assert.Equal(t, "main", values["default_target_branch"])
	})

	t.Run("should list every key as text", func(t *testing.T) {
		// Arrange
		cfg, translations, path := setupConfigTest(t)
		cmd := NewConfigCommandFactory(nil).CreateCommand(translations, cfg)

		// Act
		out, err := runApp(t, cmd, "config", "show")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out.String(), path)
		for _, key := range config.Keys() {
			assert.Contains(t, out.String(), key)
		}
	})
}

func TestGetCommand(t *testing.T) {
	t.Run("should print a single value", func(t *testing.T) {
		cfg, translations, _ := setupConfigTest(t)
		cmd := NewConfigCommandFactory(nil).CreateCommand(translations, cfg)

		out, err := runApp(t, cmd, "config", "get", "language")

		require.NoError(t, err)
		assert.Equal(t, "en\n", out.String())
	})

	t.Run("should fail on unknown keys", func(t *testing.T) {
		cfg, translations, _ := setupConfigTest(t)
		cmd := NewConfigCommandFactory(nil).CreateCommand(translations, cfg)

		_, err := runApp(t, cmd, "config", "get", "model")

		assert.Error(t, err)
	})
}

func TestSetCommand(t *testing.T) {
	t.Run("should persist a global setting", func(t *testing.T) {
		// Arrange
		cfg, translations, path := setupConfigTest(t)
		cmd := NewConfigCommandFactory(nil).CreateCommand(translations, cfg)

		// Act
		_, err := runApp(t, cmd, "config", "set", "live_branch_fallback", "production")

		// Assert
		require.NoError(t, err)
		reloaded, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "production", reloaded.LiveBranchFallback)
	})

	t.Run("should persist a local setting", func(t *testing.T) {
		// Arrange
		cfg, translations, _ := setupConfigTest(t)
		repo := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(repo, ".git"), 0755))
		t.Chdir(repo)
		cmd := NewConfigCommandFactory(nil).CreateCommand(translations, cfg)

		// Act
		_, err := runApp(t, cmd, "config", "set", "--local", "default_target_branch", "develop")

		// Assert
		require.NoError(t, err)
		local, ok, err := config.LoadLocalConfig()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "develop", local.DefaultTargetBranch)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		cfg, translations, path := setupConfigTest(t)
		cmd := NewConfigCommandFactory(nil).CreateCommand(translations, cfg)

		_, err := runApp(t, cmd, "config", "set", "jira_base_url", "not-a-url")

		assert.Error(t, err)
		reloaded, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Empty(t, reloaded.JiraBaseURL)
	})

	t.Run("should require a key and a value", func(t *testing.T) {
		cfg, translations, _ := setupConfigTest(t)
		cmd := NewConfigCommandFactory(nil).CreateCommand(translations, cfg)

		_, err := runApp(t, cmd, "config", "set", "language")

		assert.Error(t, err)
	})
}

func TestInitCommand(t *testing.T) {
	t.Run("should save the answers", func(t *testing.T) {
		// Arrange
		cfg, translations, path := setupConfigTest(t)
		prompter := new(mockPrompter)
		prompter.On("Select", mock.Anything, config.SupportedLanguages(), "en").Return("es", nil)
		prompter.On("Input", mock.Anything, "main").Return("develop", nil)
		prompter.On("Input", mock.Anything, "").Return("", nil).Times(2)
		prompter.On("Input", mock.Anything, "").Return("alice, bob", nil).Once()
		prompter.On("Input", mock.Anything, "").Return("", nil).Once()
		prompter.On("Confirm", mock.Anything, false).Return(true, nil)
		cmd := NewConfigCommandFactory(prompter).CreateCommand(translations, cfg)

		// Act
		_, err := runApp(t, cmd, "config", "init")

		// Assert
		require.NoError(t, err)
		reloaded, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "es", reloaded.Language)
		assert.Equal(t, "develop", reloaded.DefaultTargetBranch)
		assert.Equal(t, []string{"alice", "bob"}, reloaded.PersonalizedReviewers)
		assert.True(t, reloaded.FetchOnStart)
		prompter.AssertExpectations(t)
	})
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "********wxyz", mask("secret-wxyz"))
}
