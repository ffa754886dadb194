package pr

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomas-vilte/matepr/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/strategy"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/urfave/cli/v3"
)

type StagesCommand struct {
	prProvider PRServiceProvider
}

func NewStagesCommand(prProvider PRServiceProvider) *StagesCommand {
	return &StagesCommand{prProvider: prProvider}
}

func (c *StagesCommand) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "stages",
		Usage: t.GetMessage("stages.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "family",
				Usage: t.GetMessage("flags.family", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("flags.json", 0, nil),
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

			remote, err := prService.RemoteBranches(ctx, cmd.Bool("fetch"))
			if err != nil {
				ui.HandleAppError(err, t)
				return err
			}
			current, err := prService.CurrentBranch(ctx)
			if err != nil {
				ui.HandleAppError(err, t)
				return err
			}

			families := []strategy.Family{strategy.FamilyRelease, strategy.FamilyHotfix}
			if f := cmd.String("family"); f != "" {
				families = []strategy.Family{strategy.Family(f)}
			}

			var stages []strategy.Stage
			for _, f := range families {
				stages = append(stages, strategy.SuggestStages(f, current, remote, prService.Defaults())...)
			}

			if cmd.Bool("json") {
				if stages == nil {
					stages = []strategy.Stage{}
				}
				return writeJSON(cmd.Root().Writer, stages)
			}

			w := cmd.Root().Writer
			if len(stages) == 0 {
				ui.PrintWarning(t.GetMessage("stages.none", 0, nil))
				return nil
			}
			for _, st := range stages {
				_, _ = fmt.Fprintf(w, "%s %s\n", ui.Accent.Sprint("•"), st.Title)
				_, _ = fmt.Fprintf(w, "    %s  %s -> %s\n", ui.Dim.Sprint(st.Strategy.String()), st.Source, strings.Join(st.Targets, ", "))
			}
			return nil
		},
	}
}
