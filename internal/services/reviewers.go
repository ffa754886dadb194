package services

import (
	"context"
	"slices"
	"strings"

	"github.com/thomas-vilte/matepr/internal/cache"
	"github.com/thomas-vilte/matepr/internal/codeowners"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/regex"
	"github.com/thomas-vilte/matepr/internal/strategy"
)

// Contributors returns the repository contributors without ignored authors.
// Results are cached per repository when a cache is configured.
func (s *PRService) Contributors(ctx context.Context) ([]string, error) {
	if s.vcs == nil {
		return nil, nil
	}

	key := ""
	if s.cache != nil {
		if owner, repo, _, err := s.git.GetRepoInfo(ctx); err == nil {
			key = cache.Key("contributors", owner, repo)
			var cached []string
			if found, err := s.cache.Get(key, &cached); err == nil && found {
				logger.FromContext(ctx).Debug("contributors cache hit", "count", len(cached))
				return s.withoutIgnored(cached), nil
			}
		}
	}

	list, err := s.vcs.ListContributors(ctx)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if err := s.cache.Set(key, list); err != nil {
			logger.FromContext(ctx).Debug("contributors cache write failed", "error", err)
		}
	}
	return s.withoutIgnored(list), nil
}

func (s *PRService) withoutIgnored(list []string) []string {
	out := make([]string, 0, len(list))
	for _, l := range list {
		if !s.config.IsIgnoredAuthor(l) {
			out = append(out, l)
		}
	}
	return out
}

// SuggestReviewers returns the CODEOWNERS of the files head changes against
// base, limited to the personalized reviewers when any are configured.
func (s *PRService) SuggestReviewers(ctx context.Context, base, head string) ([]string, error) {
	if base == "" || head == "" {
		return nil, nil
	}

	files, err := s.git.GetChangedFilesBetween(ctx, base, head)
	if err != nil {
		return nil, err
	}
	return s.OwnersOf(ctx, files)
}

// ChangedFiles lists the paths head changes against base. An empty head means the current branch.
func (s *PRService) ChangedFiles(ctx context.Context, base, head string) ([]string, error) {
	head, err := s.sourceOrCurrent(ctx, head)
	if err != nil {
		return nil, err
	}
	if base == "" {
		base = s.config.DefaultTargetBranch
	}
	return s.git.GetChangedFilesBetween(ctx, base, head)
}

// OwnersOf returns the filtered CODEOWNERS of paths.
func (s *PRService) OwnersOf(ctx context.Context, paths []string) ([]string, error) {
	rules, err := s.ownershipRules(ctx)
	if err != nil || len(rules) == 0 {
		return nil, err
	}
	return codeowners.MatchOwners(paths, rules, s.config.PersonalizedReviewers), nil
}

// OwnershipRules loads the CODEOWNERS rules of the repository and the file they came from.
func (s *PRService) OwnershipRules(ctx context.Context) ([]codeowners.Rule, string, error) {
	root, err := s.git.GetRepoRoot(ctx)
	if err != nil {
		return nil, "", err
	}
	return codeowners.Load(root)
}

func (s *PRService) ownershipRules(ctx context.Context) ([]codeowners.Rule, error) {
	rules, path, err := s.OwnershipRules(ctx)
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.FromContext(ctx).Debug("no CODEOWNERS file found")
	}
	return rules, nil
}

// ExpandReviewers replaces configured group names with their members and
// removes duplicates, keeping first-seen order.
func (s *PRService) ExpandReviewers(inputs []string) []string {
	var out []string
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if members, ok := s.config.ReviewerGroups[in]; ok {
			out = append(out, members...)
			continue
		}
		out = append(out, in)
	}
	return strategy.Dedupe(out)
}

// ResolveHandle turns a reviewer input into a GitHub login. Plain handles
// pass through; "Name <email>" and bare emails go through github_user_map,
// the handle cache and finally a GitHub user search.
func (s *PRService) ResolveHandle(ctx context.Context, identity string) (string, bool) {
	identity = strings.TrimSpace(identity)
	email := emailOf(identity)
	if email == "" {
		h := codeowners.NormalizeHandle(identity)
		return h, h != ""
	}

	if h, ok := s.config.GitHubUserMap[email]; ok && h != "" {
		return h, true
	}

	key := cache.Key("handle", strings.ToLower(email))
	if s.cache != nil {
		var h string
		if found, err := s.cache.Get(key, &h); err == nil && found && h != "" {
			return h, true
		}
	}

	if s.vcs == nil {
		return "", false
	}

	h, err := s.vcs.SearchUserByEmail(ctx, email)
	if err != nil {
		logger.FromContext(ctx).Warn("github user search failed", "email", email, "error", err)
		return "", false
	}
	if h == "" {
		return "", false
	}

	if s.cache != nil {
		_ = s.cache.Set(key, h)
	}
	return h, true
}

// ResolveReviewers expands and resolves inputs. Unresolved inputs are returned separately.
func (s *PRService) ResolveReviewers(ctx context.Context, inputs []string) (handles, unresolved []string) {
	for _, in := range s.ExpandReviewers(inputs) {
		h, ok := s.ResolveHandle(ctx, in)
		if !ok {
			unresolved = append(unresolved, in)
			continue
		}
		if !slices.Contains(handles, h) {
			handles = append(handles, h)
		}
	}
	return handles, unresolved
}

func emailOf(identity string) string {
	if m := regex.EmailInBrackets.FindStringSubmatch(identity); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.Contains(identity, "@") && !strings.HasPrefix(identity, "@") {
		return identity
	}
	return ""
}
