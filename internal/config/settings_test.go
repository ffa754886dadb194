package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	t.Run("sets and gets string settings", func(t *testing.T) {
		// Arrange
		cfg := &Config{}

		// Act
		err := cfg.Set("Default_Target_Branch", " develop ")

		// Assert
		require.NoError(t, err)
		got, ok := cfg.Get("default_target_branch")
		assert.True(t, ok)
		assert.Equal(t, "develop", got)
	})

	t.Run("parses comma separated lists", func(t *testing.T) {
		cfg := &Config{}

		require.NoError(t, cfg.Set("personalized_reviewers", "alice, bob,,alice"))

		assert.Equal(t, []string{"alice", "bob"}, cfg.PersonalizedReviewers)
		got, _ := cfg.Get("personalized_reviewers")
		assert.Equal(t, "alice,bob", got)
	})

	t.Run("parses booleans", func(t *testing.T) {
		cfg := &Config{}

		require.NoError(t, cfg.Set("fetch_on_start", "true"))
		assert.True(t, cfg.FetchOnStart)
		assert.Error(t, cfg.Set("fetch_on_start", "maybe"))
	})

	t.Run("writes nested notify settings", func(t *testing.T) {
		cfg := &Config{}

		require.NoError(t, cfg.Set("notify.allowed_repos", "api,web"))

		assert.Equal(t, []string{"api", "web"}, cfg.Notify.AllowedRepos)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		cfg := &Config{}

		assert.Error(t, cfg.Set("model", "gpt"))
		_, ok := cfg.Get("model")
		assert.False(t, ok)
	})
}

func TestKeys(t *testing.T) {
	keys := Keys()

	assert.Contains(t, keys, "notify.slack_webhook_url")
	assert.IsIncreasing(t, keys)
	assert.True(t, IsSecret("github_token"))
	assert.False(t, IsSecret("language"))
}
