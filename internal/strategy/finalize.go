package strategy

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/matepr/internal/logger"
)

// QuestionKind says what a Decider is being asked to pick.
type QuestionKind string

const (
	AskSource QuestionKind = "source"
	AskTarget QuestionKind = "target"
)

// Question is a decision the resolver could not take on its own.
type Question struct {
	Kind       QuestionKind
	Strategy   Strategy
	Current    string
	Spec       TargetSpec
	Candidates []string
}

// Decider answers the questions left open by Resolve and ResolveTargets. An
// empty answer for a target question drops that target.
type Decider interface {
	Decide(ctx context.Context, q Question) (string, error)
}

// HeadlessDecider picks the first candidate, which is the latest one for
// versioned subsets, and drops targets without candidates.
type HeadlessDecider struct{}

func (HeadlessDecider) Decide(ctx context.Context, q Question) (string, error) {
	log := logger.FromContext(ctx)
	if len(q.Candidates) == 0 {
		log.Warn("no candidates, dropping target",
			"strategy", q.Strategy.String(),
			"target", q.Spec.String())
		return "", nil
	}
	log.Warn("picked default candidate",
		"kind", string(q.Kind),
		"strategy", q.Strategy.String(),
		"branch", q.Candidates[0],
		"count", len(q.Candidates))
	return q.Candidates[0], nil
}

// Outcome is a fully resolved promotion.
type Outcome struct {
	Strategy Strategy     `json:"strategy"`
	Source   string       `json:"source"`
	Targets  []string     `json:"targets"`
	Dropped  []TargetSpec `json:"dropped,omitempty"`
}

// Finalize settles the source, resolves the targets and asks d whenever the
// plan leaves a choice open.
func Finalize(ctx context.Context, plan Plan, defaults Defaults, d Decider) (Outcome, error) {
	log := logger.FromContext(ctx)

	if plan.Selection.NeedsSelection {
		if len(plan.Selection.Candidates) == 0 {
			log.Warn("no remote branch matches the expected source shape, continuing with current branch",
				"shape", plan.Selection.ShapeName,
				"branch", plan.Source)
		} else {
			src, err := d.Decide(ctx, Question{
				Kind:       AskSource,
				Strategy:   plan.Strategy,
				Current:    plan.Source,
				Candidates: plan.Selection.Candidates,
			})
			if err != nil {
				return Outcome{}, fmt.Errorf("selecting source branch: %w", err)
			}
			if src == "" {
				src = plan.Source
			}
			plan = plan.WithSource(src)
		}
	}

	out := Outcome{Strategy: plan.Strategy, Source: plan.Source}
	names := make([]string, 0, len(plan.Targets))
	for _, r := range ResolveTargets(plan.Targets, plan.Remote(), defaults) {
		if r.Status == StatusResolved {
			names = append(names, r.Branch)
			continue
		}
		picked, err := d.Decide(ctx, Question{
			Kind:       AskTarget,
			Strategy:   plan.Strategy,
			Current:    plan.Source,
			Spec:       r.Spec,
			Candidates: r.Candidates,
		})
		if err != nil {
			return Outcome{}, fmt.Errorf("resolving target %s: %w", r.Spec, err)
		}
		if picked == "" {
			out.Dropped = append(out.Dropped, r.Spec)
			continue
		}
		names = append(names, picked)
	}
	out.Targets = Dedupe(names)

	log.Debug("promotion resolved",
		"strategy", plan.Strategy.String(),
		"source", out.Source,
		"targets_count", len(out.Targets))
	return out, nil
}
