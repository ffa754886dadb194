package reviewers

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/urfave/cli/v3"
)

func setupReviewersTest(t *testing.T) (*config.Config, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	return cfg, path
}

func runReviewers(t *testing.T, cfg *config.Config, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	var buf bytes.Buffer
	app := &cli.Command{
		Name:     "mate-pr",
		Writer:   &buf,
		Commands: []*cli.Command{NewReviewersCommand().CreateCommand(translations, cfg)},
	}
	return &buf, app.Run(context.Background(), append([]string{"mate-pr", "reviewers"}, args...))
}

func TestReviewersCommand(t *testing.T) {
	t.Run("should add handles without duplicates", func(t *testing.T) {
		// Arrange
		cfg, path := setupReviewersTest(t)

		// Act
		_, err := runReviewers(t, cfg, "add", "@alice", "bob", "alice")

		// Assert
		require.NoError(t, err)
		saved, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, saved.PersonalizedReviewers)
	})

	t.Run("should remove handles case-insensitively", func(t *testing.T) {
		// Arrange
		cfg, path := setupReviewersTest(t)
		cfg.PersonalizedReviewers = []string{"Alice", "bob"}
		require.NoError(t, config.SaveConfig(cfg))

		// Act
		_, err := runReviewers(t, cfg, "remove", "@alice")

		// Assert
		require.NoError(t, err)
		saved, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, saved.PersonalizedReviewers)
	})

	t.Run("should define and delete a group", func(t *testing.T) {
		cfg, path := setupReviewersTest(t)

		_, err := runReviewers(t, cfg, "group", "backend", "@alice", "bob")
		require.NoError(t, err)
		saved, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, saved.ReviewerGroups["backend"])

		_, err = runReviewers(t, cfg, "group", "backend")
		require.NoError(t, err)
		saved, err = config.LoadConfig(path)
		require.NoError(t, err)
		assert.NotContains(t, saved.ReviewerGroups, "backend")
	})

	t.Run("should map an email to a handle", func(t *testing.T) {
		cfg, path := setupReviewersTest(t)

		_, err := runReviewers(t, cfg, "map", "Alice@Example.com", "@alice")

		require.NoError(t, err)
		saved, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "alice", saved.GitHubUserMap["alice@example.com"])
	})

	t.Run("should reject a map without an email", func(t *testing.T) {
		cfg, _ := setupReviewersTest(t)

		_, err := runReviewers(t, cfg, "map", "alice", "bob")

		assert.Error(t, err)
	})

	t.Run("should list the settings as JSON", func(t *testing.T) {
		// Arrange
		cfg, _ := setupReviewersTest(t)
		cfg.PersonalizedReviewers = []string{"alice"}
		cfg.ReviewerGroups = map[string][]string{"web": {"carol"}}

		// Act
		out, err := runReviewers(t, cfg, "list", "--json")

		// Assert
		require.NoError(t, err)
		var got listOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, []string{"alice"}, got.Personalized)
		assert.Equal(t, []string{"carol"}, got.Groups["web"])
	})

	t.Run("should list the settings as text", func(t *testing.T) {
		cfg, _ := setupReviewersTest(t)
		cfg.GitHubUserMap = map[string]string{"a@b.c": "alice"}

		out, err := runReviewers(t, cfg, "list")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "a@b.c -> @alice")
	})
}
