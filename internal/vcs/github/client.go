package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.VCSClient = (*GitHubClient)(nil)

const perPage = 100

type PullRequestsService interface {
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
	RequestReviewers(ctx context.Context, owner, repo string, number int, reviewers github.ReviewersRequest) (*github.PullRequest, *github.Response, error)
}

type RepositoriesService interface {
	ListContributors(ctx context.Context, owner, repo string, opts *github.ListContributorsOptions) ([]*github.Contributor, *github.Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

type SearchService interface {
	Users(ctx context.Context, query string, opts *github.SearchOptions) (*github.UsersSearchResult, *github.Response, error)
}

type GitHubClient struct {
	prService     PullRequestsService
	repoService   RepositoriesService
	usersService  UsersService
	searchService SearchService
	owner         string
	repo          string
}

func NewGitHubClient(owner, repo, token string) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &GitHubClient{
		prService:     client.PullRequests,
		repoService:   client.Repositories,
		usersService:  client.Users,
		searchService: client.Search,
		owner:         owner,
		repo:          repo,
	}
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	repoService RepositoriesService,
	usersService UsersService,
	searchService SearchService,
	owner string,
	repo string,
) *GitHubClient {
	return &GitHubClient{
		prService:     prService,
		repoService:   repoService,
		usersService:  usersService,
		searchService: searchService,
		owner:         owner,
		repo:          repo,
	}
}

func (ghc *GitHubClient) FindOpenPR(ctx context.Context, head, base string) (*models.PullRequest, error) {
	log := logger.FromContext(ctx)

	log.Debug("checking for open pull request",
		"head", head,
		"base", base)

	opts := &github.PullRequestListOptions{
		State:       "open",
		Head:        fmt.Sprintf("%s:%s", ghc.owner, head),
		Base:        base,
		ListOptions: github.ListOptions{PerPage: 1},
	}

	prs, resp, err := ghc.prService.List(ctx, ghc.owner, ghc.repo, opts)
	if err != nil {
		return nil, ghc.apiError(resp, err, "list pull requests", domainErrors.ErrListPRs)
	}

	if len(prs) == 0 {
		return nil, nil
	}

	pr := toModel(prs[0])
	log.Info("open pull request found",
		"head", head,
		"base", base,
		"number", pr.Number,
		"url", pr.URL)

	return pr, nil
}

func (ghc *GitHubClient) CreatePR(ctx context.Context, req models.PRRequest) (*models.PullRequest, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	newPR := &github.NewPullRequest{
		Title: github.Ptr(req.Title),
		Head:  github.Ptr(req.Head),
		Base:  github.Ptr(req.Base),
		Body:  github.Ptr(req.Body),
		Draft: github.Ptr(req.Draft),
	}

	pr, resp, err := ghc.prService.Create(ctx, ghc.owner, ghc.repo, newPR)
	if err != nil {
		log.Error("failed to create pull request",
			"head", req.Head,
			"base", req.Base,
			"error", err)
		return nil, ghc.apiError(resp, err, "create pull request", domainErrors.ErrCreatePR).
			WithContext("head", req.Head).
			WithContext("base", req.Base)
	}

	created := toModel(pr)
	log.Info("pull request created",
		"number", created.Number,
		"url", created.URL,
		"duration_ms", time.Since(start).Milliseconds())

	return created, nil
}

// RequestReviewers splits "org/team" handles into team review requests.
func (ghc *GitHubClient) RequestReviewers(ctx context.Context, number int, reviewers []string) error {
	if len(reviewers) == 0 {
		return nil
	}

	var req github.ReviewersRequest
	for _, r := range reviewers {
		r = strings.TrimPrefix(strings.TrimSpace(r), "@")
		if r == "" {
			continue
		}
		if _, team, ok := strings.Cut(r, "/"); ok {
			req.TeamReviewers = append(req.TeamReviewers, team)
			continue
		}
		req.Reviewers = append(req.Reviewers, r)
	}

	if len(req.Reviewers) == 0 && len(req.TeamReviewers) == 0 {
		return nil
	}

	_, resp, err := ghc.prService.RequestReviewers(ctx, ghc.owner, ghc.repo, number, req)
	if err != nil {
		return ghc.apiError(resp, err, "request reviewers", domainErrors.ErrRequestReviewers).
			WithContext("pr_number", number)
	}

	logger.FromContext(ctx).Debug("reviewers requested",
		"pr_number", number,
		"reviewers", req.Reviewers,
		"teams", req.TeamReviewers)

	return nil
}

func (ghc *GitHubClient) ListContributors(ctx context.Context) ([]string, error) {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var logins []string
	for {
		contributors, resp, err := ghc.repoService.ListContributors(ctx, ghc.owner, ghc.repo, opts)
		if err != nil {
			return nil, ghc.apiError(resp, err, "list contributors", domainErrors.ErrListContributors)
		}

		for _, c := range contributors {
			if login := c.GetLogin(); login != "" {
				logins = append(logins, login)
			}
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	sort.Strings(logins)
	return logins, nil
}

func (ghc *GitHubClient) GetAuthenticatedUser(ctx context.Context) (string, error) {
	user, resp, err := ghc.usersService.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.Response != nil && resp.StatusCode == http.StatusUnauthorized {
			return "", domainErrors.ErrGitHubTokenInvalid.
				WithContext("operation", "get authenticated user")
		}
		return "", fmt.Errorf("error obtaining authenticated user: %w", err)
	}

	if user.GetLogin() == "" {
		return "", fmt.Errorf("authenticated user has no login")
	}

	return user.GetLogin(), nil
}

func (ghc *GitHubClient) SearchUserByEmail(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil
	}

	result, resp, err := ghc.searchService.Users(ctx, email+" in:email", &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return "", ghc.apiError(resp, err, "search users", domainErrors.ErrSearchUsers).
			WithContext("email", email)
	}

	if result == nil || len(result.Users) == 0 {
		logger.FromContext(ctx).Debug("no github user for email", "email", email)
		return "", nil
	}

	return result.Users[0].GetLogin(), nil
}

// apiError maps well-known HTTP statuses to their AppError and falls back to sentinel.
func (ghc *GitHubClient) apiError(resp *github.Response, err error, operation string, sentinel *domainErrors.AppError) *domainErrors.AppError {
	repo := fmt.Sprintf("%s/%s", ghc.owner, ghc.repo)

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("reset", rateErr.Rate.Reset.Time.Format(time.RFC3339)).
			WithContext("operation", operation)
	}

	if resp != nil && resp.Response != nil {
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.
				WithError(err).
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation)
		case http.StatusUnauthorized:
			return domainErrors.ErrGitHubTokenInvalid.
				WithError(err).
				WithContext("operation", operation)
		case http.StatusForbidden:
			return domainErrors.ErrGitHubInsufficientPerms.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", repo)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", repo)
		}
	}

	return sentinel.WithError(err).
		WithContext("operation", operation).
		WithContext("repo", repo)
}

func toModel(pr *github.PullRequest) *models.PullRequest {
	return &models.PullRequest{
		Number: pr.GetNumber(),
		URL:    pr.GetHTMLURL(),
		Title:  pr.GetTitle(),
		Head:   pr.GetHead().GetRef(),
		Base:   pr.GetBase().GetRef(),
		Draft:  pr.GetDraft(),
	}
}
