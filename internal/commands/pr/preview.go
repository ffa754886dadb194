package pr

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/matepr/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/urfave/cli/v3"
)

type PreviewCommand struct {
	prProvider PRServiceProvider
}

func NewPreviewCommand(prProvider PRServiceProvider) *PreviewCommand {
	return &PreviewCommand{prProvider: prProvider}
}

func (c *PreviewCommand) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:          "preview",
		Usage:         t.GetMessage("preview.usage", 0, nil),
		Flags:         contentFlags(t),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			prService, err := c.prProvider(ctx)
			if err != nil {
				return writeJSONError(cmd, fmt.Errorf(t.GetMessage("error.pr_service_creation_error", 0, nil)+": %w", err))
			}

			opts := optionsFromFlags(cmd)
			target := ""
			if len(opts.Targets) > 0 {
				target = opts.Targets[0]
			}

			preview, err := prService.Preview(ctx, opts, target)
			if err != nil {
				return writeJSONError(cmd, err)
			}
			return writeJSON(cmd.Root().Writer, preview)
		},
	}
}

// contentFlags are the flags shared by preview and create.
func contentFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   t.GetMessage("flags.source", 0, nil),
		},
		&cli.StringSliceFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   t.GetMessage("flags.targets", 0, nil),
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: t.GetMessage("flags.title", 0, nil),
		},
		&cli.StringFlag{
			Name:  "body",
			Usage: t.GetMessage("flags.body", 0, nil),
		},
		&cli.StringSliceFlag{
			Name:    "ticket",
			Aliases: []string{"tickets"},
			Usage:   t.GetMessage("flags.ticket", 0, nil),
		},
	}
}

func optionsFromFlags(cmd *cli.Command) models.CreateOptions {
	return models.CreateOptions{
		Source:      cmd.String("source"),
		Targets:     cmd.StringSlice("target"),
		Title:       cmd.String("title"),
		Description: cmd.String("body"),
		Tickets:     cmd.StringSlice("ticket"),
	}
}
