package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomas-vilte/matepr/internal/commands/completion_helper"
	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct {
	prompter ui.Prompter
}

func NewConfigCommandFactory(prompter ui.Prompter) *ConfigCommandFactory {
	return &ConfigCommandFactory{prompter: prompter}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config.usage", 0, nil),
		Commands: []*cli.Command{
			c.newShowCommand(t, cfg),
			c.newGetCommand(t, cfg),
			c.newSetCommand(t, cfg),
			c.newInitCommand(t, cfg),
			c.newEditCommand(t, cfg),
		},
	}
}

func scopeFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   t.GetMessage("flags.local", 0, nil),
		},
	}
}

func scopeName(local bool) string {
	if local {
		return "local"
	}
	return "global"
}

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("flags.json", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			values := make(map[string]string, len(config.Keys()))
			for _, key := range config.Keys() {
				v, _ := cfg.Get(key)
				if config.IsSecret(key) && v != "" {
					v = mask(v)
				}
				values[key] = v
			}

			if cmd.Bool("json") {
				return writeJSON(w, values)
			}

			_, _ = fmt.Fprintf(w, "%s %s\n\n", ui.Accent.Sprint(t.GetMessage("config.file", 0, nil)), cfg.PathFile)
			notSet := t.GetMessage("config.not_set", 0, nil)
			for _, key := range config.Keys() {
				v := values[key]
				if v == "" {
					v = ui.Dim.Sprint(notSet)
				}
				_, _ = fmt.Fprintf(w, "  %-28s %s\n", key, v)
			}
			if len(cfg.ReviewerGroups) > 0 {
				_, _ = fmt.Fprintf(w, "\n%s\n", ui.Accent.Sprint(t.GetMessage("config.reviewer_groups", 0, nil)))
				for name, members := range cfg.ReviewerGroups {
					_, _ = fmt.Fprintf(w, "  %-28s %s\n", name, strings.Join(members, ", "))
				}
			}
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newGetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     t.GetMessage("config.get_usage", 0, nil),
		ArgsUsage: "<key>",
		ShellComplete: func(ctx context.Context, cmd *cli.Command) {
			for _, k := range config.Keys() {
				_, _ = fmt.Fprintln(cmd.Root().Writer, k)
			}
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			key := cmd.Args().First()
			v, ok := cfg.Get(key)
			if !ok {
				return fmt.Errorf("%s", t.GetMessage("config.unknown_key", 0, map[string]interface{}{
					"Key":  key,
					"Keys": strings.Join(config.Keys(), ", "),
				}))
			}
			_, _ = fmt.Fprintln(cmd.Root().Writer, v)
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config.set_usage", 0, nil),
		ArgsUsage: "<key> <value>",
		Flags:     scopeFlags(t),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				ui.PrintError(ui.Out, t.GetMessage("config.set_error_args", 0, nil))
				return fmt.Errorf("missing arguments")
			}
			key := strings.ToLower(cmd.Args().Get(0))
			value := cmd.Args().Get(1)
			local := cmd.Bool("local")

			target, err := config.LoadForEdit(local, cfg.PathFile)
			if err != nil {
				return err
			}
			if err := target.Set(key, value); err != nil {
				return fmt.Errorf("%s: %w", t.GetMessage("config.unknown_key", 0, map[string]interface{}{
					"Key":  key,
					"Keys": strings.Join(config.Keys(), ", "),
				}), err)
			}
			if err := config.SaveScoped(target, local); err != nil {
				ui.PrintError(ui.Out, t.GetMessage("config.error_saving", 0, nil))
				return err
			}

			shown := value
			if config.IsSecret(key) {
				shown = mask(value)
			}
			ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("config.set_success", 0, map[string]interface{}{
				"Key":   key,
				"Value": shown,
				"Scope": scopeName(local),
			}))
			return nil
		},
	}
}

// mask keeps the last four characters of a secret.
func mask(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + v[len(v)-4:]
}
