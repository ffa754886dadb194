package pr

import (
	"context"
	"fmt"
	"time"

	"github.com/thomas-vilte/matepr/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/urfave/cli/v3"
)

type CreateCommand struct {
	prProvider PRServiceProvider
}

func NewCreateCommand(prProvider PRServiceProvider) *CreateCommand {
	return &CreateCommand{prProvider: prProvider}
}

func (c *CreateCommand) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	flags := append(contentFlags(t),
		&cli.StringSliceFlag{
			Name:    "reviewer",
			Aliases: []string{"reviewers", "r"},
			Usage:   t.GetMessage("flags.reviewer", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "draft",
			Usage: t.GetMessage("flags.draft", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "notify",
			Usage: t.GetMessage("flags.notify", 0, nil),
		},
	)

	return &cli.Command{
		Name:  "create",
		Usage: t.GetMessage("create.usage", 0, nil),
		Flags: flags,
		ShellComplete: completion_helper.BranchComplete(func(ctx context.Context) ([]string, error) {
			prService, err := c.prProvider(ctx)
			if err != nil {
				return nil, err
			}
			return prService.RemoteBranches(ctx, false)
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			start := time.Now()

			prService, err := c.prProvider(ctx)
			if err != nil {
				return writeJSONError(cmd, fmt.Errorf(t.GetMessage("error.pr_service_creation_error", 0, nil)+": %w", err))
			}

			opts := optionsFromFlags(cmd)
			opts.Reviewers = cmd.StringSlice("reviewer")
			opts.Draft = cmd.Bool("draft")
			opts.Notify = cmd.Bool("notify")

			if _, err := prService.RemoteBranches(ctx, true); err != nil {
				log.Warn("remote branches unavailable before create", "error", err)
			}

			report, err := prService.CreatePRs(ctx, opts)
			if err != nil {
				log.Error("failed to create pull requests",
					"error", err,
					"duration_ms", time.Since(start).Milliseconds())
				return writeJSONError(cmd, err)
			}

			log.Info("create command finished",
				"results", len(report.Results),
				"success", report.Success,
				"duration_ms", time.Since(start).Milliseconds())

			return writeJSON(cmd.Root().Writer, report)
		},
	}
}
