package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/regex"
)

const defaultRemote = "origin"

type GitService struct {
	dir    string
	remote string
}

func NewGitService() *GitService {
	return &GitService{remote: defaultRemote}
}

// NewGitServiceInDir runs every git command inside dir.
func NewGitServiceInDir(dir string) *GitService {
	return &GitService{dir: dir, remote: defaultRemote}
}

func (s *GitService) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.dir
	return cmd
}

// output runs git and returns trimmed stdout. On failure the returned error
// wraps sentinel and carries git's stderr in its context.
func (s *GitService) output(ctx context.Context, sentinel *errors.AppError, args ...string) (string, error) {
	cmd := s.command(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		logger.Debug(ctx, "git command failed",
			"args", strings.Join(args, " "),
			"stderr", strings.TrimSpace(stderr.String()))
		return "", sentinel.WithError(err).WithContext("stderr", strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// IsGitRepo reports whether the working directory is inside a work tree.
func (s *GitService) IsGitRepo(ctx context.Context) bool {
	out, err := s.command(ctx, "rev-parse", "--is-inside-work-tree").Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// GetRepoRoot gets the absolute path to the root of the git repository
func (s *GitService) GetRepoRoot(ctx context.Context) (string, error) {
	return s.output(ctx, errors.ErrGetRepoRoot, "rev-parse", "--show-toplevel")
}

// FetchAll updates every remote and prunes deleted branches.
func (s *GitService) FetchAll(ctx context.Context) error {
	_, err := s.output(ctx, errors.ErrFetch, "fetch", "--all", "--prune")
	return err
}

// GetRemoteBranches lists the branches of origin without the "origin/"
// prefix. Symbolic refs such as origin/HEAD are skipped.
func (s *GitService) GetRemoteBranches(ctx context.Context) ([]string, error) {
	out, err := s.output(ctx, errors.ErrGetRemoteBranches, "branch", "-r")
	if err != nil {
		return nil, err
	}
	return parseRemoteBranches(out, s.remote), nil
}

func parseRemoteBranches(out, remote string) []string {
	prefix := remote + "/"
	seen := make(map[string]struct{})
	branches := make([]string, 0)

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "->") {
			continue
		}
		name, ok := strings.CutPrefix(line, prefix)
		if !ok || name == "HEAD" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		branches = append(branches, name)
	}
	return branches
}

func (s *GitService) GetCurrentBranch(ctx context.Context) (string, error) {
	branchName, err := s.output(ctx, errors.ErrGetBranch, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	if branchName == "" {
		return "", errors.ErrNoBranch
	}
	return branchName, nil
}

// GetCommitsBetween returns the subjects of the non-merge commits in head
// that are not in the remote base branch, newest first.
func (s *GitService) GetCommitsBetween(ctx context.Context, base, head string) ([]string, error) {
	rangeSpec := fmt.Sprintf("%s/%s..%s", s.remote, base, head)
	out, err := s.output(ctx, errors.ErrGetCommits.WithContext("range", rangeSpec),
		"log", rangeSpec, "--no-merges", "--pretty=format:%s")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// GetChangedFilesBetween lists the paths changed in head since it diverged
// from the remote base branch.
func (s *GitService) GetChangedFilesBetween(ctx context.Context, base, head string) ([]string, error) {
	rangeSpec := fmt.Sprintf("%s/%s...%s", s.remote, base, head)
	out, err := s.output(ctx, errors.ErrGetChangedFiles.WithContext("range", rangeSpec),
		"diff", "--name-only", rangeSpec)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// GetGitUserInfo returns user.name and user.email from git config.
func (s *GitService) GetGitUserInfo(ctx context.Context) (string, string, error) {
	name, err := s.output(ctx, errors.ErrGetGitUser, "config", "user.name")
	if err != nil {
		return "", "", err
	}
	email, err := s.output(ctx, errors.ErrGetGitUser, "config", "user.email")
	if err != nil {
		return "", "", err
	}
	return name, email, nil
}

// GetRepoInfo returns owner, repository name and provider of origin.
func (s *GitService) GetRepoInfo(ctx context.Context) (string, string, string, error) {
	url, err := s.output(ctx, errors.ErrGetRepoURL, "remote", "get-url", s.remote)
	if err != nil {
		return "", "", "", err
	}
	return parseRepoURL(url)
}

func parseRepoURL(url string) (string, string, string, error) {
	var matches []string
	if m := regex.SSHRepo.FindStringSubmatch(url); m != nil {
		matches = m
	} else if m := regex.HTTPSRepo.FindStringSubmatch(url); m != nil {
		matches = m
	}

	if len(matches) >= 4 {
		provider := detectProvider(matches[1])
		repoName := strings.TrimSuffix(matches[3], ".git")
		return matches[2], repoName, provider, nil
	}

	return "", "", "", errors.ErrExtractRepoInfo.WithContext("url", url)
}

func detectProvider(host string) string {
	if strings.Contains(host, "github") {
		return "github"
	}
	if strings.Contains(host, "gitlab") {
		return "gitlab"
	}
	return "unknown"
}

func splitLines(out string) []string {
	lines := make([]string, 0)
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
