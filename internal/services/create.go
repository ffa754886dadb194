package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/notify/slack"
	"github.com/thomas-vilte/matepr/internal/strategy"
	"github.com/thomas-vilte/matepr/internal/tickets"
	"golang.org/x/sync/errgroup"
)

const existingCheckLimit = 4

// CreatePRs opens one pull request per target. Targets that already have an
// open pull request from the source are skipped. A failing target does not
// stop the others.
func (s *PRService) CreatePRs(ctx context.Context, opts models.CreateOptions) (models.CreateReport, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	targets := strategy.Dedupe(opts.Targets)
	if len(targets) == 0 {
		return models.CreateReport{}, domainErrors.ErrNoTargets
	}
	if s.vcs == nil {
		return models.CreateReport{}, domainErrors.ErrTokenMissing
	}

	source, err := s.sourceOrCurrent(ctx, opts.Source)
	if err != nil {
		return models.CreateReport{}, err
	}

	body, err := RenderBody(s.config.PRTemplate, opts.Tickets, s.config.JiraBaseURL, opts.Description)
	if err != nil {
		return models.CreateReport{}, err
	}
	ids := tickets.IDs(opts.Tickets)

	reviewers, unresolved := s.ResolveReviewers(ctx, opts.Reviewers)
	reviewers = s.withoutSelf(ctx, reviewers)
	var warnings []string
	for _, u := range unresolved {
		warnings = append(warnings, fmt.Sprintf("could not resolve GitHub handle for: %s", u))
	}

	existing := s.findExisting(ctx, source, targets)

	report := models.CreateReport{Success: true, Source: source}
	for _, target := range targets {
		res := models.PRResult{
			Target:    target,
			Title:     RenderTitle(ids, opts.Title, source, target),
			Reviewers: reviewers,
			Warnings:  warnings,
		}

		if pr, ok := existing[target]; ok {
			log.Info("pull request already exists, skipping",
				"source", source,
				"target", target,
				"url", pr.URL)
			res.Skipped = true
			res.Reason = "PR already exists"
			res.URL = pr.URL
			res.Number = pr.Number
			res.Reviewers = nil
			report.Results = append(report.Results, res)
			continue
		}

		pr, err := s.vcs.CreatePR(ctx, models.PRRequest{
			Title: res.Title,
			Body:  body,
			Head:  source,
			Base:  target,
			Draft: opts.Draft,
		})
		if err != nil {
			res.Error = err.Error()
			res.Reviewers = nil
			report.Success = false
			report.Results = append(report.Results, res)
			continue
		}

		res.URL = pr.URL
		res.Number = pr.Number

		if err := s.vcs.RequestReviewers(ctx, pr.Number, reviewers); err != nil {
			log.Warn("reviewers not requested", "target", target, "error", err)
			res.Warnings = append(append([]string(nil), warnings...), err.Error())
		}
		report.Results = append(report.Results, res)
	}

	log.Info("pull requests processed",
		"source", source,
		"targets", len(targets),
		"duration_ms", time.Since(start).Milliseconds())

	if opts.Notify {
		s.Notify(ctx, report, opts, reviewers)
	}

	return report, nil
}

// findExisting looks up open pull requests from source into every target.
// Lookup failures are logged and treated as "none open".
func (s *PRService) findExisting(ctx context.Context, source string, targets []string) map[string]*models.PullRequest {
	var mu sync.Mutex
	found := make(map[string]*models.PullRequest)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(existingCheckLimit)
	for _, target := range targets {
		g.Go(func() error {
			pr, err := s.vcs.FindOpenPR(gctx, source, target)
			if err != nil {
				logger.FromContext(ctx).Warn("failed to check for existing pull request",
					"source", source,
					"target", target,
					"error", err)
				return nil
			}
			if pr != nil {
				mu.Lock()
				found[target] = pr
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return found
}

func (s *PRService) withoutSelf(ctx context.Context, reviewers []string) []string {
	if len(reviewers) == 0 {
		return reviewers
	}
	me, err := s.vcs.GetAuthenticatedUser(ctx)
	if err != nil || me == "" {
		return reviewers
	}

	out := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		if !strings.EqualFold(r, me) {
			out = append(out, r)
		}
	}
	return out
}

// Notify announces the created pull requests. Failures are logged only.
func (s *PRService) Notify(ctx context.Context, report models.CreateReport, opts models.CreateOptions, reviewers []string) {
	log := logger.FromContext(ctx)
	if s.notifier == nil {
		return
	}

	created := false
	for _, r := range report.Results {
		if r.Created() {
			created = true
			break
		}
	}
	if !created {
		log.Debug("nothing created, notification skipped")
		return
	}

	_, repo, _, err := s.git.GetRepoInfo(ctx)
	if err != nil {
		log.Warn("repository name unavailable, notification skipped", "error", err)
		return
	}

	author := ""
	if name, email, err := s.git.GetGitUserInfo(ctx); err == nil {
		author = fmt.Sprintf("%s <%s>", name, email)
	}

	msg := slack.Message{
		Repository:  repo,
		Author:      author,
		Reviewers:   reviewers,
		Results:     report.Results,
		Description: opts.Description,
		Tickets:     opts.Tickets,
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		log.Warn("notification not delivered", "error", err)
	}
}
