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

type DataCommand struct {
	prProvider PRServiceProvider
}

func NewDataCommand(prProvider PRServiceProvider) *DataCommand {
	return &DataCommand{prProvider: prProvider}
}

func (c *DataCommand) CreateCommand(t *i18n.Translations, _ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "data",
		Usage: t.GetMessage("data.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fetch",
				Usage: t.GetMessage("flags.fetch", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			start := time.Now()

			prService, err := c.prProvider(ctx)
			if err != nil {
				return writeJSONError(cmd, fmt.Errorf(t.GetMessage("error.pr_service_creation_error", 0, nil)+": %w", err))
			}

			data, err := prService.GatherData(ctx, cmd.Bool("fetch"))
			if err != nil {
				log.Error("failed to gather repository data",
					"error", err,
					"duration_ms", time.Since(start).Milliseconds())
				return writeJSONError(cmd, err)
			}

			return writeJSON(cmd.Root().Writer, data)
		},
	}
}
