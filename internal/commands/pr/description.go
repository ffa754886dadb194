package pr

import (
	"context"
	"errors"
	"fmt"

	"github.com/thomas-vilte/matepr/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/urfave/cli/v3"
)

type DescriptionCommand struct {
	prProvider PRServiceProvider
}

func NewDescriptionCommand(prProvider PRServiceProvider) *DescriptionCommand {
	return &DescriptionCommand{prProvider: prProvider}
}

func (c *DescriptionCommand) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "description",
		Usage: t.GetMessage("description.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   t.GetMessage("flags.source", 0, nil),
			},
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   t.GetMessage("flags.target", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			source, target := cmd.String("source"), cmd.String("target")
			if source == "" || target == "" {
				return writeJSONError(cmd, errors.New(t.GetMessage("error.source_target_required", 0, nil)))
			}

			prService, err := c.prProvider(ctx)
			if err != nil {
				return writeJSONError(cmd, fmt.Errorf(t.GetMessage("error.pr_service_creation_error", 0, nil)+": %w", err))
			}

			desc, err := prService.Description(ctx, source, target)
			if err != nil {
				return writeJSONError(cmd, err)
			}

			return writeJSON(cmd.Root().Writer, map[string]string{"description": desc})
		},
	}
}
