package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thomas-vilte/matepr/internal/regex"
)

type (
	Config struct {
		Language            string `json:"language"`
		DefaultTargetBranch string `json:"default_target_branch"`
		LiveBranchFallback  string `json:"live_branch_fallback,omitempty"`
		JiraBaseURL         string `json:"jira_base_url,omitempty"`
		GitHubToken         string `json:"github_token,omitempty"`
		FetchOnStart        bool   `json:"fetch_on_start,omitempty"`
		PRTemplate          string `json:"pr_template,omitempty"`

		// GitHub handles offered first when picking reviewers.
		PersonalizedReviewers []string            `json:"personalized_reviewers,omitempty"`
		GitHubUserMap         map[string]string   `json:"github_user_map,omitempty"` // email -> handle
		IgnoredAuthors        []string            `json:"ignored_authors,omitempty"`
		ReviewerGroups        map[string][]string `json:"reviewer_groups,omitempty"`

		Notify NotifyConfig `json:"notify"`

		PathFile string `json:"-"`
	}

	NotifyConfig struct {
		SlackWebhookURL   string            `json:"slack_webhook_url,omitempty"`
		CodeReviewChannel string            `json:"code_review_channel,omitempty"`
		SlackUserMap      map[string]string `json:"slack_user_map,omitempty"` // handle -> slack id
		AllowedRepos      []string          `json:"allowed_repos,omitempty"`
	}
)

const (
	defaultLang          = LangEN
	defaultTargetBranch  = "main"
	configDirName        = ".mate-pr"
	configFileName       = "config.json"
	LocalConfigFileName  = ".mate-pr.json"
	EnvGitHubToken       = "GITHUB_TOKEN"
	EnvSlackWebhook      = "PR_CREATOR_SLACK_WEBHOOK"
	EnvJiraBaseURL       = "PR_CREATOR_JIRA_BASE_URL"
	defaultFilePerm      = 0644
	defaultDirectoryPerm = 0755
)

// LoadConfig reads the global config. path may be a .json file or a
// directory under which .mate-pr/config.json is used. A missing file is
// created with defaults.
func LoadConfig(path string) (*Config, error) {
	configPath := path
	if filepath.Ext(path) != ".json" {
		configPath = filepath.Join(path, configDirName, configFileName)
	}

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return CreateDefaultConfig(configPath)
		}
		return nil, fmt.Errorf("error checking config file: %w", err)
	}

	return readConfig(configPath, true)
}

// readConfig decodes path. Global files get defaults and full validation;
// local files stay sparse so Merge only overrides what they set.
func readConfig(path string, global bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}
	cfg.PathFile = path
	validate := validateLocal
	if global {
		applyDefaults(&cfg)
		validate = Validate
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return &cfg, nil
}

func CreateDefaultConfig(path string) (*Config, error) {
	cfg := &Config{PathFile: path}
	applyDefaults(cfg)

	if err := os.MkdirAll(filepath.Dir(path), defaultDirectoryPerm); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}
	if err := write(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Language == "" {
		cfg.Language = defaultLang
	}
	if cfg.DefaultTargetBranch == "" {
		cfg.DefaultTargetBranch = defaultTargetBranch
	}
}

func SaveConfig(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config to save is not valid: %w", err)
	}
	if cfg.PathFile == "" {
		return errors.New("config file path is not set")
	}
	return write(cfg, cfg.PathFile)
}

func write(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, defaultFilePerm); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	return nil
}

// GetRepoConfigPath returns the path of the repository local config, or ""
// when the working directory is not inside a git repository.
func GetRepoConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	root := findRepoRoot(wd)
	if root == "" {
		return ""
	}
	return filepath.Join(root, LocalConfigFileName)
}

func findRepoRoot(dir string) string {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadLocalConfig reads the repository local config. ok is false when there
// is none.
func LoadLocalConfig() (cfg *Config, ok bool, err error) {
	path := GetRepoConfigPath()
	if path == "" {
		return nil, false, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, false, nil
	}
	cfg, err = readConfig(path, false)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

func SaveLocalConfig(cfg *Config) error {
	path := GetRepoConfigPath()
	if path == "" {
		return errors.New("not inside a git repository")
	}
	if err := validateLocal(cfg); err != nil {
		return fmt.Errorf("config to save is not valid: %w", err)
	}
	cfg.PathFile = path
	return write(cfg, path)
}

// LoadForEdit returns the file a command should modify: the repository local
// config when local is set, otherwise the global config at globalPath. A
// missing local file gives an empty config.
func LoadForEdit(local bool, globalPath string) (*Config, error) {
	if !local {
		return LoadConfig(globalPath)
	}
	cfg, ok, err := LoadLocalConfig()
	if err != nil {
		return nil, err
	}
	if !ok {
		if GetRepoConfigPath() == "" {
			return nil, errors.New("not inside a git repository")
		}
		return &Config{}, nil
	}
	return cfg, nil
}

// SaveScoped writes cfg back where LoadForEdit found it.
func SaveScoped(cfg *Config, local bool) error {
	if local {
		return SaveLocalConfig(cfg)
	}
	return SaveConfig(cfg)
}

// Merge returns global overridden by every field set in local.
func Merge(global, local *Config) *Config {
	if local == nil {
		return global
	}
	out := *global
	out.GitHubUserMap = maps.Clone(global.GitHubUserMap)
	out.ReviewerGroups = maps.Clone(global.ReviewerGroups)
	out.Notify.SlackUserMap = maps.Clone(global.Notify.SlackUserMap)

	override(&out.Language, local.Language)
	override(&out.DefaultTargetBranch, local.DefaultTargetBranch)
	override(&out.LiveBranchFallback, local.LiveBranchFallback)
	override(&out.JiraBaseURL, local.JiraBaseURL)
	override(&out.GitHubToken, local.GitHubToken)
	override(&out.PRTemplate, local.PRTemplate)
	override(&out.Notify.SlackWebhookURL, local.Notify.SlackWebhookURL)
	override(&out.Notify.CodeReviewChannel, local.Notify.CodeReviewChannel)
	if local.FetchOnStart {
		out.FetchOnStart = true
	}
	if len(local.PersonalizedReviewers) > 0 {
		out.PersonalizedReviewers = slices.Clone(local.PersonalizedReviewers)
	}
	if len(local.IgnoredAuthors) > 0 {
		out.IgnoredAuthors = slices.Clone(local.IgnoredAuthors)
	}
	if len(local.Notify.AllowedRepos) > 0 {
		out.Notify.AllowedRepos = slices.Clone(local.Notify.AllowedRepos)
	}
	out.GitHubUserMap = mergeMap(out.GitHubUserMap, local.GitHubUserMap)
	out.ReviewerGroups = mergeMap(out.ReviewerGroups, local.ReviewerGroups)
	out.Notify.SlackUserMap = mergeMap(out.Notify.SlackUserMap, local.Notify.SlackUserMap)
	return &out
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// ApplyEnv fills secrets and URLs from the environment when the config does
// not set them.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	fill(&c.GitHubToken, EnvGitHubToken)
	fill(&c.Notify.SlackWebhookURL, EnvSlackWebhook)
	fill(&c.JiraBaseURL, EnvJiraBaseURL)
}

// IsRepoAllowed reports whether notifications are enabled for repo. An empty
// allow list allows every repository.
func (c *Config) IsRepoAllowed(repo string) bool {
	if len(c.Notify.AllowedRepos) == 0 {
		return true
	}
	return slices.ContainsFunc(c.Notify.AllowedRepos, func(r string) bool {
		return strings.EqualFold(r, repo)
	})
}

// IsIgnoredAuthor reports whether login is configured to be hidden from
// reviewer suggestions.
func (c *Config) IsIgnoredAuthor(login string) bool {
	return slices.ContainsFunc(c.IgnoredAuthors, func(a string) bool {
		return strings.EqualFold(a, login)
	})
}

func Validate(cfg *Config) error {
	if cfg.Language == "" {
		return errors.New("language cannot be empty")
	}
	if cfg.DefaultTargetBranch == "" {
		return errors.New("default_target_branch cannot be empty")
	}
	return validateLocal(cfg)
}

// validateLocal checks only the fields that are set.
func validateLocal(cfg *Config) error {
	if cfg.Language != "" && !IsSupportedLanguage(cfg.Language) {
		return fmt.Errorf("unsupported language: %s", cfg.Language)
	}
	if cfg.JiraBaseURL != "" && !regex.URLPrefix.MatchString(cfg.JiraBaseURL) {
		return fmt.Errorf("jira_base_url must be an http(s) URL: %s", cfg.JiraBaseURL)
	}
	if u := cfg.Notify.SlackWebhookURL; u != "" && !regex.URLPrefix.MatchString(u) {
		return fmt.Errorf("slack_webhook_url must be an http(s) URL: %s", u)
	}
	return nil
}
