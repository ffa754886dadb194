package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type setting struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringSetting(field func(c *Config) *string) setting {
	return setting{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = strings.TrimSpace(v)
			return nil
		},
	}
}

func listSetting(field func(c *Config) *[]string) setting {
	return setting{
		get: func(c *Config) string { return strings.Join(*field(c), ",") },
		set: func(c *Config, v string) error {
			var out []string
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" && !slices.Contains(out, part) {
					out = append(out, part)
				}
			}
			*field(c) = out
			return nil
		},
	}
}

var settings = map[string]setting{
	"language":              stringSetting(func(c *Config) *string { return &c.Language }),
	"default_target_branch": stringSetting(func(c *Config) *string { return &c.DefaultTargetBranch }),
	"live_branch_fallback":  stringSetting(func(c *Config) *string { return &c.LiveBranchFallback }),
	"jira_base_url":         stringSetting(func(c *Config) *string { return &c.JiraBaseURL }),
	"github_token":          stringSetting(func(c *Config) *string { return &c.GitHubToken }),
	"pr_template":           stringSetting(func(c *Config) *string { return &c.PRTemplate }),
	"fetch_on_start": {
		get: func(c *Config) string { return strconv.FormatBool(c.FetchOnStart) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid boolean value: %s", v)
			}
			c.FetchOnStart = b
			return nil
		},
	},
	"personalized_reviewers":     listSetting(func(c *Config) *[]string { return &c.PersonalizedReviewers }),
	"ignored_authors":            listSetting(func(c *Config) *[]string { return &c.IgnoredAuthors }),
	"notify.slack_webhook_url":   stringSetting(func(c *Config) *string { return &c.Notify.SlackWebhookURL }),
	"notify.code_review_channel": stringSetting(func(c *Config) *string { return &c.Notify.CodeReviewChannel }),
	"notify.allowed_repos":       listSetting(func(c *Config) *[]string { return &c.Notify.AllowedRepos }),
}

// Keys lists the settings that can be read and written by name, sorted.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns a setting by name. Lists are comma separated.
func (c *Config) Get(key string) (string, bool) {
	s, ok := settings[strings.ToLower(key)]
	if !ok {
		return "", false
	}
	return s.get(c), true
}

// Set parses value into the named setting. Lists are comma separated.
func (c *Config) Set(key, value string) error {
	s, ok := settings[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return s.set(c, value)
}

// IsSecret reports whether a setting should be masked when shown.
func IsSecret(key string) bool {
	return key == "github_token" || key == "notify.slack_webhook_url"
}
