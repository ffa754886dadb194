// Package reviewers manages the reviewer settings: the personalized reviewer
// list, reviewer groups and the email to GitHub handle map.
package reviewers

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/thomas-vilte/matepr/internal/codeowners"
	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/urfave/cli/v3"
)

type ReviewersCommand struct{}

func NewReviewersCommand() *ReviewersCommand {
	return &ReviewersCommand{}
}

type listOutput struct {
	Personalized []string            `json:"personalized_reviewers"`
	Groups       map[string][]string `json:"reviewer_groups"`
	UserMap      map[string]string   `json:"github_user_map"`
}

func (c *ReviewersCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	localFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   t.GetMessage("flags.local", 0, nil),
		}
	}

	return &cli.Command{
		Name:  "reviewers",
		Usage: t.GetMessage("reviewers.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: t.GetMessage("reviewers.list_usage", 0, nil),
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: t.GetMessage("flags.json", 0, nil)},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return list(cmd, t, cfg)
				},
			},
			{
				Name:      "add",
				Usage:     t.GetMessage("reviewers.add_usage", 0, nil),
				ArgsUsage: "<handle>...",
				Flags:     []cli.Flag{localFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return edit(cmd, t, cfg, func(target *config.Config, args []string) error {
						if len(args) == 0 {
							return fmt.Errorf("%s", t.GetMessage("reviewers.error_no_handles", 0, nil))
						}
						for _, h := range args {
							h = codeowners.NormalizeHandle(h)
							if h != "" && !slices.Contains(target.PersonalizedReviewers, h) {
								target.PersonalizedReviewers = append(target.PersonalizedReviewers, h)
							}
						}
						return nil
					})
				},
			},
			{
				Name:      "remove",
				Usage:     t.GetMessage("reviewers.remove_usage", 0, nil),
				ArgsUsage: "<handle>...",
				Flags:     []cli.Flag{localFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return edit(cmd, t, cfg, func(target *config.Config, args []string) error {
						drop := make([]string, 0, len(args))
						for _, a := range args {
							drop = append(drop, strings.ToLower(codeowners.NormalizeHandle(a)))
						}
						target.PersonalizedReviewers = slices.DeleteFunc(target.PersonalizedReviewers, func(h string) bool {
							return slices.Contains(drop, strings.ToLower(h))
						})
						return nil
					})
				},
			},
			{
				Name:      "group",
				Usage:     t.GetMessage("reviewers.group_usage", 0, nil),
				ArgsUsage: "<name> [member]...",
				Flags:     []cli.Flag{localFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return edit(cmd, t, cfg, func(target *config.Config, args []string) error {
						if len(args) == 0 {
							return fmt.Errorf("%s", t.GetMessage("reviewers.error_group_name", 0, nil))
						}
						name, members := args[0], args[1:]
						if len(members) == 0 {
							delete(target.ReviewerGroups, name)
							return nil
						}
						if target.ReviewerGroups == nil {
							target.ReviewerGroups = make(map[string][]string)
						}
						handles := make([]string, 0, len(members))
						for _, m := range members {
							handles = append(handles, codeowners.NormalizeHandle(m))
						}
						target.ReviewerGroups[name] = handles
						return nil
					})
				},
			},
			{
				Name:      "map",
				Usage:     t.GetMessage("reviewers.map_usage", 0, nil),
				ArgsUsage: "<email> <handle>",
				Flags:     []cli.Flag{localFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return edit(cmd, t, cfg, func(target *config.Config, args []string) error {
						if len(args) != 2 || !strings.Contains(args[0], "@") {
							return fmt.Errorf("%s", t.GetMessage("reviewers.error_map_args", 0, nil))
						}
						if target.GitHubUserMap == nil {
							target.GitHubUserMap = make(map[string]string)
						}
						target.GitHubUserMap[strings.ToLower(args[0])] = codeowners.NormalizeHandle(args[1])
						return nil
					})
				},
			},
		},
	}
}

// edit loads the chosen config file, applies change and saves it.
func edit(cmd *cli.Command, t *i18n.Translations, cfg *config.Config, change func(*config.Config, []string) error) error {
	local := cmd.Bool("local")
	target, err := config.LoadForEdit(local, cfg.PathFile)
	if err != nil {
		return err
	}
	if err := change(target, cmd.Args().Slice()); err != nil {
		return err
	}
	if err := config.SaveScoped(target, local); err != nil {
		return err
	}
	ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("reviewers.saved", 0, nil))
	return nil
}

func list(cmd *cli.Command, t *i18n.Translations, cfg *config.Config) error {
	w := cmd.Root().Writer
	out := listOutput{
		Personalized: cfg.PersonalizedReviewers,
		Groups:       cfg.ReviewerGroups,
		UserMap:      cfg.GitHubUserMap,
	}
	if out.Personalized == nil {
		out.Personalized = []string{}
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	none := ui.Dim.Sprint(t.GetMessage("common.none", 0, nil))
	_, _ = fmt.Fprintln(w, ui.Accent.Sprint(t.GetMessage("reviewers.personalized", 0, nil)))
	if len(out.Personalized) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", none)
	}
	for _, h := range out.Personalized {
		_, _ = fmt.Fprintf(w, "  @%s\n", h)
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", ui.Accent.Sprint(t.GetMessage("reviewers.groups", 0, nil)))
	if len(out.Groups) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", none)
	}
	for _, name := range sortedKeys(out.Groups) {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(out.Groups[name], ", "))
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", ui.Accent.Sprint(t.GetMessage("reviewers.user_map", 0, nil)))
	if len(out.UserMap) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", none)
	}
	for _, email := range sortedKeys(out.UserMap) {
		_, _ = fmt.Fprintf(w, "  %s -> @%s\n", email, out.UserMap[email])
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
