package pr

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomas-vilte/matepr/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/strategy"
	"github.com/urfave/cli/v3"
)

type planOutput struct {
	Plan        strategy.Plan         `json:"plan"`
	Resolutions []strategy.Resolution `json:"resolutions"`
	Resolved    strategy.Outcome      `json:"resolved"`
}

type PlanCommand struct {
	prProvider PRServiceProvider
}

func NewPlanCommand(prProvider PRServiceProvider) *PlanCommand {
	return &PlanCommand{prProvider: prProvider}
}

func (c *PlanCommand) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: t.GetMessage("plan.usage", 0, map[string]interface{}{"Strategies": strategyList()}),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "strategy",
				Usage:    t.GetMessage("flags.strategy", 0, nil),
				Required: true,
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
				Name:  "fetch",
				Usage: t.GetMessage("flags.fetch", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, ok := strategy.Parse(cmd.String("strategy"))
			if !ok {
				return writeJSONError(cmd, domainErrors.ErrUnknownStrategy.WithContext("strategy", cmd.String("strategy")))
			}

			prService, err := c.prProvider(ctx)
			if err != nil {
				return writeJSONError(cmd, fmt.Errorf(t.GetMessage("error.pr_service_creation_error", 0, nil)+": %w", err))
			}

			plan, err := resolvePlan(ctx, prService, s, cmd.String("source"), cmd.StringSlice("target"), cmd.Bool("fetch"))
			if err != nil {
				return writeJSONError(cmd, err)
			}

			defaults := prService.Defaults()
			outcome, err := strategy.Finalize(ctx, plan, defaults, strategy.HeadlessDecider{})
			if err != nil {
				return writeJSONError(cmd, err)
			}

			return writeJSON(cmd.Root().Writer, planOutput{
				Plan:        plan,
				Resolutions: strategy.ResolveTargets(plan.Targets, plan.Remote(), defaults),
				Resolved:    outcome,
			})
		},
	}
}

// resolvePlan reads the branch state and applies the strategy's rules.
func resolvePlan(ctx context.Context, prService PRService, s strategy.Strategy, source string, targets []string, fetch bool) (strategy.Plan, error) {
	remote, err := prService.RemoteBranches(ctx, fetch)
	if err != nil {
		return strategy.Plan{}, err
	}

	current, err := prService.CurrentBranch(ctx)
	if err != nil {
		return strategy.Plan{}, err
	}

	if s != strategy.Manual && len(targets) > 0 {
		logger.FromContext(ctx).Warn("--target only applies to the manual strategy", "strategy", s.String(), "targets", targets)
	}

	return strategy.Resolve(strategy.Request{
		Strategy:       s,
		CurrentBranch:  current,
		RemoteBranches: remote,
		Source:         source,
		ManualTargets:  targets,
	}), nil
}

func strategyList() string {
	names := make([]string, 0, len(strategy.All()))
	for _, s := range strategy.All() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}
