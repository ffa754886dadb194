package services

import (
	"context"
	"strings"
	"time"

	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/notify/slack"
	"github.com/thomas-vilte/matepr/internal/strategy"
	"github.com/thomas-vilte/matepr/internal/tickets"
	"github.com/thomas-vilte/matepr/internal/vcs"
	"golang.org/x/sync/errgroup"
)

// prGitService defines the local repository queries needed by PRService.
type prGitService interface {
	FetchAll(ctx context.Context) error
	GetRepoRoot(ctx context.Context) (string, error)
	GetCurrentBranch(ctx context.Context) (string, error)
	GetRemoteBranches(ctx context.Context) ([]string, error)
	GetCommitsBetween(ctx context.Context, base, head string) ([]string, error)
	GetChangedFilesBetween(ctx context.Context, base, head string) ([]string, error)
	GetGitUserInfo(ctx context.Context) (string, string, error)
	GetRepoInfo(ctx context.Context) (string, string, string, error)
}

// prNotifier announces created pull requests.
type prNotifier interface {
	Send(ctx context.Context, msg slack.Message) error
}

// prCache keeps slow lookups between runs.
type prCache interface {
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
}

type PRService struct {
	git      prGitService
	vcs      vcs.VCSClient
	notifier prNotifier
	cache    prCache
	config   *config.Config
}

type PROption func(*PRService)

func WithPRGitService(git prGitService) PROption {
	return func(s *PRService) {
		s.git = git
	}
}

func WithPRVCSClient(client vcs.VCSClient) PROption {
	return func(s *PRService) {
		s.vcs = client
	}
}

func WithPRNotifier(n prNotifier) PROption {
	return func(s *PRService) {
		s.notifier = n
	}
}

func WithPRCache(c prCache) PROption {
	return func(s *PRService) {
		s.cache = c
	}
}

func WithPRConfig(cfg *config.Config) PROption {
	return func(s *PRService) {
		s.config = cfg
	}
}

func NewPRService(opts ...PROption) *PRService {
	s := &PRService{config: &config.Config{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults are the configured fallbacks used when resolving placeholder targets.
func (s *PRService) Defaults() strategy.Defaults {
	return strategy.Defaults{
		DefaultTarget: s.config.DefaultTargetBranch,
		LiveFallback:  s.config.LiveBranchFallback,
	}
}

func (s *PRService) CurrentBranch(ctx context.Context) (string, error) {
	return s.git.GetCurrentBranch(ctx)
}

// RemoteBranches returns the remote branch snapshot, refreshing it first when fetch is set.
func (s *PRService) RemoteBranches(ctx context.Context, fetch bool) ([]string, error) {
	if fetch {
		if err := s.git.FetchAll(ctx); err != nil {
			logger.FromContext(ctx).Warn("fetch failed, using local remote refs", "error", err)
		}
	}
	return s.git.GetRemoteBranches(ctx)
}

// GatherData collects everything a front-end needs before building a promotion.
func (s *PRService) GatherData(ctx context.Context, fetch bool) (models.RepoData, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	if fetch || s.config.FetchOnStart {
		if err := s.git.FetchAll(ctx); err != nil {
			log.Warn("fetch failed, using local remote refs", "error", err)
		}
	}

	var (
		data         models.RepoData
		current      string
		remote       []string
		contributors []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.git.GetCurrentBranch(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		remote, err = s.git.GetRemoteBranches(gctx)
		return err
	})
	g.Go(func() error {
		list, err := s.Contributors(gctx)
		if err != nil {
			log.Warn("contributors unavailable", "error", err)
			return nil
		}
		contributors = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.RepoData{}, err
	}

	ids, title := tickets.ParseBranchName(current)

	data.CurrentBranch = current
	data.RemoteBranches = nonNil(remote)
	data.Contributors = nonNil(contributors)
	data.SuggestedTickets = nonNil(ids)
	data.SuggestedTitle = title
	data.PersonalizedReviewers = nonNil(s.config.PersonalizedReviewers)

	suggested, err := s.SuggestReviewers(ctx, s.config.DefaultTargetBranch, current)
	if err != nil {
		log.Warn("reviewer suggestions unavailable", "error", err)
	}
	data.SuggestedReviewers = nonNil(suggested)

	log.Info("repository data gathered",
		"current", current,
		"remote_count", len(remote),
		"contributors", len(contributors),
		"duration_ms", time.Since(start).Milliseconds())

	return data, nil
}

// Description lists the commit subjects that source would bring into target.
func (s *PRService) Description(ctx context.Context, source, target string) (string, error) {
	commits, err := s.git.GetCommitsBetween(ctx, target, source)
	if err != nil {
		return "", err
	}

	lines := make([]string, len(commits))
	for i, c := range commits {
		lines[i] = "- " + c
	}
	return strings.Join(lines, "\n"), nil
}

// Preview renders the pull request that opts would open into target.
func (s *PRService) Preview(ctx context.Context, opts models.CreateOptions, target string) (models.Preview, error) {
	source, err := s.sourceOrCurrent(ctx, opts.Source)
	if err != nil {
		return models.Preview{}, err
	}
	if target == "" {
		target = s.config.DefaultTargetBranch
	}

	body, err := RenderBody(s.config.PRTemplate, opts.Tickets, s.config.JiraBaseURL, opts.Description)
	if err != nil {
		return models.Preview{}, err
	}

	return models.Preview{
		Title: RenderTitle(tickets.IDs(opts.Tickets), opts.Title, source, target),
		Body:  body,
	}, nil
}

func (s *PRService) sourceOrCurrent(ctx context.Context, source string) (string, error) {
	if source != "" {
		return source, nil
	}
	return s.git.GetCurrentBranch(ctx)
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
