package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/thomas-vilte/matepr/internal/commands/completion_helper"
	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "init",
		Usage:         t.GetMessage("config.init_usage", 0, nil),
		Flags:         scopeFlags(t),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			local := cmd.Bool("local")
			target, err := config.LoadForEdit(local, cfg.PathFile)
			if err != nil {
				return err
			}

			if err := c.askSettings(t, target); err != nil {
				return err
			}
			if err := config.SaveScoped(target, local); err != nil {
				ui.PrintError(ui.Out, t.GetMessage("config.error_saving", 0, nil))
				return err
			}

			ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("config.init_success", 0, map[string]interface{}{
				"Scope": scopeName(local),
			}))
			return nil
		},
	}
}

// askSettings walks through the settings a new user usually needs.
func (c *ConfigCommandFactory) askSettings(t *i18n.Translations, cfg *config.Config) error {
	lang := cfg.Language
	if lang == "" {
		lang = config.LangEN
	}
	lang, err := c.prompter.Select(t.GetMessage("config.ask_language", 0, nil), config.SupportedLanguages(), lang)
	if err != nil {
		return err
	}
	cfg.Language = lang

	inputs := []struct {
		key   string
		label string
	}{
		{"default_target_branch", "config.ask_default_target"},
		{"live_branch_fallback", "config.ask_live_fallback"},
		{"jira_base_url", "config.ask_jira_base_url"},
		{"personalized_reviewers", "config.ask_reviewers"},
		{"notify.slack_webhook_url", "config.ask_slack_webhook"},
	}
	for _, in := range inputs {
		current, _ := cfg.Get(in.key)
		v, err := c.prompter.Input(t.GetMessage(in.label, 0, nil), current)
		if err != nil {
			return err
		}
		if err := cfg.Set(in.key, v); err != nil {
			return err
		}
	}

	fetch, err := c.prompter.Confirm(t.GetMessage("config.ask_fetch_on_start", 0, nil), cfg.FetchOnStart)
	if err != nil {
		return err
	}
	cfg.FetchOnStart = fetch
	return nil
}

func (c *ConfigCommandFactory) newEditCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: t.GetMessage("config.edit_usage", 0, nil),
		Flags: scopeFlags(t),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cfg.PathFile
			if cmd.Bool("local") {
				if path = config.GetRepoConfigPath(); path == "" {
					return fmt.Errorf("%s", t.GetMessage("error.not_in_git_repo", 0, nil))
				}
			}

			editor := os.Getenv("EDITOR")
			if editor == "" {
				for _, candidate := range []string{"nano", "vim", "vi"} {
					if _, err := exec.LookPath(candidate); err == nil {
						editor = candidate
						break
					}
				}
			}
			if editor == "" {
				return fmt.Errorf("%s", t.GetMessage("config.error_no_editor", 0, nil))
			}

			edit := exec.CommandContext(ctx, editor, path)
			edit.Stdin = os.Stdin
			edit.Stdout = os.Stdout
			edit.Stderr = os.Stderr
			if err := edit.Run(); err != nil {
				return fmt.Errorf("%s: %w", t.GetMessage("config.error_opening_editor", 0, nil), err)
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
