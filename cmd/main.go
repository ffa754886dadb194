package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/thomas-vilte/matepr/internal/cache"
	cachecmd "github.com/thomas-vilte/matepr/internal/commands/cache"
	configcmd "github.com/thomas-vilte/matepr/internal/commands/config"
	"github.com/thomas-vilte/matepr/internal/commands/pr"
	"github.com/thomas-vilte/matepr/internal/commands/registry"
	"github.com/thomas-vilte/matepr/internal/commands/reviewers"
	cfg "github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/git"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/notify/slack"
	"github.com/thomas-vilte/matepr/internal/services"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/thomas-vilte/matepr/internal/vcs/github"
	"github.com/thomas-vilte/matepr/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	// The repository must be the working directory before configs are read,
	// so --repo is applied ahead of flag parsing.
	if dir := repoDirFromArgs(os.Args[1:]); dir != "" {
		if err := os.Chdir(dir); err != nil {
			log.Fatalf("cannot use repository %s: %v", dir, err)
		}
	}

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("error starting mate-pr: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		// Application errors were already reported by the command.
		var appErr *domainErrors.AppError
		if !errors.As(err, &appErr) {
			ui.PrintError(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not get the user home directory: %w", err)
	}

	cfgApp, err := loadConfig(homeDir)
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfg.GetLocaleConfig(cfgApp.Language), "")
	if err != nil {
		return nil, fmt.Errorf("error loading translations: %w", err)
	}

	prompter := ui.NewFormPrompter()
	prProvider := newPRServiceProvider(cfgApp)

	registerCommand := registry.NewRegistry(cfgApp, translations)
	registerCommand.MustRegister("promote", pr.NewPromoteCommand(prProvider, prompter))
	registerCommand.MustRegister("plan", pr.NewPlanCommand(prProvider))
	registerCommand.MustRegister("create", pr.NewCreateCommand(prProvider))
	registerCommand.MustRegister("data", pr.NewDataCommand(prProvider))
	registerCommand.MustRegister("description", pr.NewDescriptionCommand(prProvider))
	registerCommand.MustRegister("preview", pr.NewPreviewCommand(prProvider))
	registerCommand.MustRegister("stages", pr.NewStagesCommand(prProvider))
	registerCommand.MustRegister("owners", pr.NewOwnersCommand(prProvider))
	registerCommand.MustRegister("reviewers", reviewers.NewReviewersCommand())
	registerCommand.MustRegister("config", configcmd.NewConfigCommandFactory(prompter))
	registerCommand.MustRegister("cache", cachecmd.NewCacheCommand())

	return &cli.Command{
		Name:                  "mate-pr",
		Usage:                 translations.GetMessage("app.usage", 0, nil),
		Version:               version.FullVersion(),
		Commands:              registerCommand.CreateCommands(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"C"},
				Usage:   translations.GetMessage("flags.repo", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flags.debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   translations.GetMessage("flags.verbose", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
			return ctx, nil
		},
	}, nil
}

// loadConfig merges the global config, the repository local config and the
// environment.
func loadConfig(homeDir string) (*cfg.Config, error) {
	global, err := cfg.LoadConfig(homeDir)
	if err != nil {
		return nil, err
	}
	local, _, err := cfg.LoadLocalConfig()
	if err != nil {
		return nil, err
	}

	merged := cfg.Merge(global, local)
	merged.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(merged); err != nil {
		return nil, domainErrors.ErrInvalidConfig.WithError(err)
	}
	return merged, nil
}

// newPRServiceProvider builds the PR service on first use, so commands that
// never touch git or GitHub do not require a repository.
func newPRServiceProvider(cfgApp *cfg.Config) pr.PRServiceProvider {
	var (
		once sync.Once
		svc  *services.PRService
		err  error
	)
	return func(ctx context.Context) (pr.PRService, error) {
		once.Do(func() {
			svc, err = buildPRService(ctx, cfgApp)
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
}

func buildPRService(ctx context.Context, cfgApp *cfg.Config) (*services.PRService, error) {
	log := logger.FromContext(ctx)

	gitService := git.NewGitService()
	if !gitService.IsGitRepo(ctx) {
		return nil, domainErrors.ErrNotInGitRepo
	}

	opts := []services.PROption{
		services.WithPRGitService(gitService),
		services.WithPRConfig(cfgApp),
		services.WithPRNotifier(slack.NewNotifier(cfgApp.Notify)),
	}

	if c, err := cache.NewCache(cachecmd.DefaultTTL); err != nil {
		log.Warn("cache disabled", "error", err)
	} else {
		opts = append(opts, services.WithPRCache(c))
	}

	if cfgApp.GitHubToken == "" {
		log.Debug("no GitHub token configured, remote operations disabled")
		return services.NewPRService(opts...), nil
	}

	owner, repo, provider, err := gitService.GetRepoInfo(ctx)
	if err != nil {
		return nil, err
	}
	if provider != "github" {
		return nil, domainErrors.ErrVCSNotSupported.WithContext("provider", provider)
	}
	opts = append(opts, services.WithPRVCSClient(github.NewGitHubClient(owner, repo, cfgApp.GitHubToken)))

	return services.NewPRService(opts...), nil
}

// repoDirFromArgs finds --repo/-C among the global flags, before the first
// subcommand.
func repoDirFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			return ""
		}
		for _, name := range []string{"--repo", "-repo", "-C"} {
			if a == name && i+1 < len(args) {
				return args[i+1]
			}
			if v, ok := strings.CutPrefix(a, name+"="); ok {
				return v
			}
		}
	}
	return ""
}
