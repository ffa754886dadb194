package pr

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomas-vilte/matepr/internal/codeowners"
	"github.com/thomas-vilte/matepr/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/urfave/cli/v3"
)

type ownersOutput struct {
	Source    string          `json:"source"`
	Files     []ui.FileOwners `json:"files"`
	Reviewers []string        `json:"reviewers"`
}

type OwnersCommand struct {
	prProvider PRServiceProvider
}

func NewOwnersCommand(prProvider PRServiceProvider) *OwnersCommand {
	return &OwnersCommand{prProvider: prProvider}
}

func (c *OwnersCommand) CreateCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "owners",
		Usage:     t.GetMessage("owners.usage", 0, nil),
		ArgsUsage: t.GetMessage("owners.args_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base",
				Aliases: []string{"b"},
				Usage:   t.GetMessage("flags.base", 0, nil),
			},
			&cli.StringFlag{
				Name:  "head",
				Usage: t.GetMessage("flags.head", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("flags.json", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			prService, err := c.prProvider(ctx)
			if err != nil {
				return fmt.Errorf(t.GetMessage("error.pr_service_creation_error", 0, nil)+": %w", err)
			}

			rules, source, err := prService.OwnershipRules(ctx)
			if err != nil {
				ui.HandleAppError(err, t)
				return err
			}

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				paths, err = prService.ChangedFiles(ctx, cmd.String("base"), cmd.String("head"))
				if err != nil {
					ui.HandleAppError(err, t)
					return err
				}
			}

			out := ownersOutput{
				Source:    source,
				Files:     make([]ui.FileOwners, 0, len(paths)),
				Reviewers: codeowners.MatchOwners(paths, rules, config.PersonalizedReviewers),
			}
			for _, p := range paths {
				fo := ui.FileOwners{Path: p}
				if r, ok := codeowners.OwnerOf(p, rules); ok {
					for _, o := range r.Owners {
						fo.Owners = append(fo.Owners, codeowners.NormalizeHandle(o))
					}
				}
				out.Files = append(out.Files, fo)
			}

			if cmd.Bool("json") {
				return writeJSON(cmd.Root().Writer, out)
			}

			w := cmd.Root().Writer
			if source == "" {
				ui.PrintWarning(t.GetMessage("owners.no_codeowners", 0, nil))
			} else {
				ui.PrintInfo(t.GetMessage("owners.source_file", 0, map[string]interface{}{"Path": source}))
			}
			if len(paths) == 0 {
				ui.PrintWarning(t.GetMessage("owners.no_files", 0, nil))
				return nil
			}

			ui.PrintOwnersTree(w, out.Files, t.GetMessage("owners.tree_header", 0, map[string]interface{}{"Count": len(paths)}))
			reviewers := strings.Join(out.Reviewers, ", ")
			if reviewers == "" {
				reviewers = t.GetMessage("common.none", 0, nil)
			}
			_, _ = fmt.Fprintf(w, "\n%s %s\n", ui.Accent.Sprint(t.GetMessage("owners.reviewers", 0, nil)), reviewers)
			return nil
		},
	}
}
