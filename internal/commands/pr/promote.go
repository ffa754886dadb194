package pr

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/thomas-vilte/matepr/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/strategy"
	"github.com/thomas-vilte/matepr/internal/tickets"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/urfave/cli/v3"
)

type PromoteCommand struct {
	prProvider PRServiceProvider
	prompter   ui.Prompter
}

func NewPromoteCommand(prProvider PRServiceProvider, prompter ui.Prompter) *PromoteCommand {
	return &PromoteCommand{prProvider: prProvider, prompter: prompter}
}

func (c *PromoteCommand) CreateCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "promote",
		Usage: t.GetMessage("promote.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "strategy",
				Usage: t.GetMessage("flags.strategy", 0, nil),
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   t.GetMessage("flags.source", 0, nil),
			},
			&cli.StringSliceFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   t.GetMessage("flags.manual_targets", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   t.GetMessage("flags.yes", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "draft",
				Usage: t.GetMessage("flags.draft", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "notify",
				Value: true,
				Usage: t.GetMessage("flags.notify", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "fetch",
				Usage: t.GetMessage("flags.fetch", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			prService, err := c.prProvider(ctx)
			if err != nil {
				return fmt.Errorf(t.GetMessage("error.pr_service_creation_error", 0, nil)+": %w", err)
			}

			f := &promoteFlow{
				svc:      prService,
				prompter: c.prompter,
				t:        t,
				config:   config,
				yes:      cmd.Bool("yes"),
			}
			err = f.run(ctx, cmd)
			if errors.Is(err, domainErrors.ErrSelectionCancelled) {
				ui.PrintWarning(t.GetMessage("promote.cancelled", 0, nil))
				return nil
			}
			if err != nil {
				ui.HandleAppError(err, t)
				return err
			}
			return nil
		},
	}
}

type promoteFlow struct {
	svc      PRService
	prompter ui.Prompter
	t        *i18n.Translations
	config   *cfg.Config
	yes      bool
}

func (f *promoteFlow) run(ctx context.Context, cmd *cli.Command) error {
	log := logger.FromContext(ctx)
	start := time.Now()

	var remote []string
	err := ui.WithSpinner(f.t.GetMessage("promote.loading_branches", 0, nil), func() error {
		var err error
		remote, err = f.svc.RemoteBranches(ctx, cmd.Bool("fetch") || f.config.FetchOnStart)
		return err
	})
	if err != nil {
		return err
	}
	current, err := f.svc.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	s, err := f.pickStrategy(cmd.String("strategy"))
	if err != nil {
		return err
	}

	source, targets := cmd.String("source"), cmd.StringSlice("target")
	if s == strategy.Manual {
		if source, targets, err = f.manualBranches(current, remote, source, targets); err != nil {
			return err
		}
	}

	plan := strategy.Resolve(strategy.Request{
		Strategy:       s,
		CurrentBranch:  current,
		RemoteBranches: remote,
		Source:         source,
		ManualTargets:  targets,
	})

	var decider strategy.Decider = strategy.HeadlessDecider{}
	if !f.yes {
		decider = &promptDecider{prompter: f.prompter, t: f.t}
	}
	outcome, err := strategy.Finalize(ctx, plan, f.svc.Defaults(), decider)
	if err != nil {
		return err
	}
	if len(outcome.Targets) == 0 {
		return domainErrors.ErrNoTargets.WithContext("strategy", s.String())
	}
	log.Debug("promotion planned",
		"strategy", s.String(),
		"source", outcome.Source,
		"targets", outcome.Targets)

	opts, err := f.content(ctx, outcome)
	if err != nil {
		return err
	}
	opts.Draft = cmd.Bool("draft")
	opts.Notify = cmd.Bool("notify")

	preview, err := f.svc.Preview(ctx, opts, outcome.Targets[0])
	if err != nil {
		return err
	}
	f.printPreview(s, opts, preview)

	if !f.yes {
		ok, err := f.prompter.Confirm(f.t.GetMessage("promote.confirm", 0, map[string]interface{}{"Count": len(opts.Targets)}), true)
		if err != nil {
			return err
		}
		if !ok {
			return domainErrors.ErrSelectionCancelled
		}
	}

	var report models.CreateReport
	err = ui.WithSpinner(f.t.GetMessage("promote.creating", 0, nil), func() error {
		var err error
		report, err = f.svc.CreatePRs(ctx, opts)
		return err
	})
	if err != nil {
		return err
	}

	f.printReport(cmd, report)
	log.Info("promotion finished",
		"strategy", s.String(),
		"success", report.Success,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// pickStrategy parses the flag value or asks for a family and then a stage.
func (f *promoteFlow) pickStrategy(flag string) (strategy.Strategy, error) {
	if flag != "" {
		s, ok := strategy.Parse(flag)
		if !ok {
			return "", domainErrors.ErrUnknownStrategy.
				WithContext("strategy", flag).
				WithSuggestion(strategyList())
		}
		return s, nil
	}
	if f.yes {
		return "", domainErrors.ErrUnknownStrategy.WithSuggestion(strategyList())
	}

	families := make([]string, 0, len(strategy.Families()))
	for _, fam := range strategy.Families() {
		families = append(families, string(fam))
	}
	fam, err := f.prompter.Select(f.t.GetMessage("promote.pick_family", 0, nil), families, families[0])
	if err != nil {
		return "", err
	}

	stages := strategy.Stages(strategy.Family(fam))
	if len(stages) == 1 {
		return stages[0], nil
	}
	labels := make([]string, 0, len(stages))
	for _, s := range stages {
		labels = append(labels, s.DisplayName())
	}
	picked, err := f.prompter.Select(f.t.GetMessage("promote.pick_stage", 0, nil), labels, labels[0])
	if err != nil {
		return "", err
	}
	return stages[slices.Index(labels, picked)], nil
}

// manualBranches asks for the source and targets the flags left empty.
func (f *promoteFlow) manualBranches(current string, remote []string, source string, targets []string) (string, []string, error) {
	if f.yes {
		return source, targets, nil
	}

	var err error
	if source == "" {
		options := strategy.Dedupe(append([]string{current}, remote...))
		if source, err = f.prompter.Select(f.t.GetMessage("promote.manual_source", 0, nil), options, current); err != nil {
			return "", nil, err
		}
	}
	if len(targets) == 0 {
		options := slices.DeleteFunc(slices.Clone(remote), func(b string) bool { return b == source })
		var selected []string
		if def := f.config.DefaultTargetBranch; slices.Contains(options, def) {
			selected = []string{def}
		}
		if targets, err = f.prompter.MultiSelect(f.t.GetMessage("promote.manual_targets", 0, nil), options, selected); err != nil {
			return "", nil, err
		}
	}
	return source, targets, nil
}

// content collects reviewers, tickets, title and description, prefilled from
// CODEOWNERS, the branch name and the commit log.
func (f *promoteFlow) content(ctx context.Context, outcome strategy.Outcome) (models.CreateOptions, error) {
	log := logger.FromContext(ctx)
	base := outcome.Targets[0]

	suggested, err := f.svc.SuggestReviewers(ctx, base, outcome.Source)
	if err != nil {
		log.Warn("reviewer suggestions unavailable", "error", err)
	}
	contributors, err := f.svc.Contributors(ctx)
	if err != nil {
		log.Warn("contributors unavailable", "error", err)
	}

	ids, title := tickets.ParseBranchName(outcome.Source)
	description, err := f.svc.Description(ctx, outcome.Source, base)
	if err != nil {
		log.Warn("description not generated", "error", err)
	}

	opts := models.CreateOptions{
		Source:      outcome.Source,
		Targets:     outcome.Targets,
		Title:       title,
		Description: description,
		Tickets:     ids,
		Reviewers:   suggested,
	}
	if f.yes {
		return opts, nil
	}

	options := strategy.Dedupe(slices.Concat(suggested, f.config.PersonalizedReviewers, contributors))
	if len(options) > 0 {
		if opts.Reviewers, err = f.prompter.MultiSelect(f.t.GetMessage("promote.reviewers", 0, nil), options, suggested); err != nil {
			return opts, err
		}
	}

	raw, err := f.prompter.Input(f.t.GetMessage("promote.tickets", 0, nil), strings.Join(ids, ", "))
	if err != nil {
		return opts, err
	}
	opts.Tickets = splitList(raw)

	if opts.Title, err = f.prompter.Input(f.t.GetMessage("promote.title", 0, nil), title); err != nil {
		return opts, err
	}
	if opts.Description, err = f.prompter.Text(f.t.GetMessage("promote.description", 0, nil), description); err != nil {
		return opts, err
	}
	return opts, nil
}

func (f *promoteFlow) printPreview(s strategy.Strategy, opts models.CreateOptions, preview models.Preview) {
	none := f.t.GetMessage("common.none", 0, nil)
	reviewers := strings.Join(opts.Reviewers, ", ")
	if reviewers == "" {
		reviewers = none
	}
	ui.PrintPanel(ui.Out, preview.Title, []ui.PanelField{
		{Label: f.t.GetMessage("panel.strategy", 0, nil), Value: s.DisplayName()},
		{Label: f.t.GetMessage("panel.source", 0, nil), Value: opts.Source},
		{Label: f.t.GetMessage("panel.targets", 0, nil), Value: strings.Join(opts.Targets, ", ")},
		{Label: f.t.GetMessage("panel.reviewers", 0, nil), Value: reviewers},
	}, preview.Body)
}

func (f *promoteFlow) printReport(cmd *cli.Command, report models.CreateReport) {
	w := cmd.Root().Writer
	for _, r := range report.Results {
		data := map[string]interface{}{"Target": r.Target, "URL": r.URL, "Error": r.Error}
		switch {
		case r.Skipped:
			ui.PrintWarning(f.t.GetMessage("promote.pr_skipped", 0, data))
		case r.Error != "":
			ui.PrintError(ui.Out, f.t.GetMessage("promote.pr_failed", 0, data))
		default:
			ui.PrintSuccess(w, f.t.GetMessage("ui.pr_created", 0, data))
		}
		for _, warn := range r.Warnings {
			ui.PrintWarning(warn)
		}
	}
}

// promptDecider asks the user whenever a promotion leaves a branch choice open.
type promptDecider struct {
	prompter ui.Prompter
	t        *i18n.Translations
}

func (d *promptDecider) Decide(ctx context.Context, q strategy.Question) (string, error) {
	switch q.Kind {
	case strategy.AskSource:
		return d.prompter.Select(d.t.GetMessage("promote.pick_source", 0, map[string]interface{}{
			"Current": q.Current,
		}), q.Candidates, q.Candidates[0])
	default:
		if len(q.Candidates) == 0 {
			ui.PrintWarning(d.t.GetMessage("promote.no_candidates", 0, map[string]interface{}{"Target": q.Spec.String()}))
			return "", nil
		}
		skip := d.t.GetMessage("promote.skip_target", 0, nil)
		picked, err := d.prompter.Select(d.t.GetMessage("promote.pick_target", 0, map[string]interface{}{
			"Target": q.Spec.String(),
		}), append(slices.Clone(q.Candidates), skip), q.Candidates[0])
		if err != nil || picked == skip {
			return "", err
		}
		return picked, nil
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
