package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVCS           ErrorType = "VCS"
	TypeGit           ErrorType = "GIT"
	TypeNotify        ErrorType = "NOTIFY"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by type and message, so a sentinel enriched with
// WithContext or WithError still satisfies errors.Is against the original.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Git errors
var (
	ErrNotInGitRepo = NewAppError(TypeGit, "Not in a git repository", nil).
			WithSuggestion("Run mate-pr inside a repository or pass --repo <path>")

	ErrGetBranch = NewAppError(TypeGit, "Failed to get current branch", nil).
			WithSuggestion("Make sure you are in a git repository: git status")

	ErrNoBranch = NewAppError(TypeGit, "No branch detected", nil).
			WithSuggestion("Check out a branch first: git checkout <branch-name>")

	ErrGetRemoteBranches = NewAppError(TypeGit, "Failed to list remote branches", nil).
				WithSuggestion("Verify remote is configured: git remote -v")

	ErrFetch = NewAppError(TypeGit, "Failed to fetch from remote", nil).
			WithSuggestion("Check your network connection and remote access")

	ErrGetRepoRoot = NewAppError(TypeGit, "Failed to get repository root", nil).
			WithSuggestion("Make sure you are inside a git repository")

	ErrGetRepoURL = NewAppError(TypeGit, "Failed to get repository URL", nil).
			WithSuggestion("Add a remote: git remote add origin <url>")

	ErrExtractRepoInfo = NewAppError(TypeGit, "Failed to extract repository info", nil)

	ErrGetCommits = NewAppError(TypeGit, "Failed to get commits", nil).
			WithSuggestion("Make sure both branches exist on origin: git fetch --all")

	ErrGetChangedFiles = NewAppError(TypeGit, "Failed to get changed files", nil).
				WithSuggestion("Make sure the target branch exists on origin: git branch -r")

	ErrGetGitUser = NewAppError(TypeGit, "Failed to get git user configuration", nil).
			WithSuggestion("Configure git user:\n   git config --global user.email \"your@email.com\"")
)

// Configuration errors
var (
	ErrTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
			WithSuggestion("Export GITHUB_TOKEN or run: mate-pr config set github_token <token>")

	ErrConfigMissing = NewAppError(TypeConfiguration, "Configuration is missing", nil).
				WithSuggestion("Set a value first: mate-pr config set <key> <value>")

	ErrInvalidConfig = NewAppError(TypeConfiguration, "Configuration is invalid", nil).
				WithSuggestion("Inspect your configuration: mate-pr config show")

	ErrNoTargets = NewAppError(TypeConfiguration, "No target branches specified", nil).
			WithSuggestion("Pass at least one --target <branch>")

	ErrUnknownStrategy = NewAppError(TypeConfiguration, "Unknown promotion strategy", nil).
				WithSuggestion("List strategies with: mate-pr plan --help")
)

// VCS errors
var (
	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check repository URL and access permissions")

	ErrVCSNotSupported = NewAppError(TypeVCS, "VCS provider not supported", nil).
				WithSuggestion("Currently only GitHub is supported")

	ErrCreatePR = NewAppError(TypeVCS, "failed to create pull request", nil).
			WithSuggestion("Make sure both branches are pushed and differ: git push -u origin HEAD")

	ErrListPRs = NewAppError(TypeVCS, "failed to list pull requests", nil)

	ErrRequestReviewers = NewAppError(TypeVCS, "failed to request reviewers", nil).
				WithSuggestion("Reviewers must be collaborators of the repository")

	ErrListContributors = NewAppError(TypeVCS, "failed to list contributors", nil)

	ErrSearchUsers = NewAppError(TypeVCS, "failed to search users", nil)

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubInsufficientPerms = NewAppError(TypeVCS, "GitHub token has insufficient permissions", nil).
					WithSuggestion("Token needs the 'repo' scope.\nRegenerate at: https://github.com/settings/tokens")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a personal access token for higher limits")
)

// Notification errors
var (
	ErrNotifyFailed = NewAppError(TypeNotify, "Failed to send Slack notification", nil).
		WithSuggestion("Check notify.slack_webhook_url or PR_CREATOR_SLACK_WEBHOOK")
)

// Internal errors
var (
	ErrSelectionCancelled = NewAppError(TypeInternal, "Selection cancelled", nil)
)
