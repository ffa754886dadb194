package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/thomas-vilte/matepr/internal/cache"
	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/ui"
	"github.com/urfave/cli/v3"
)

// DefaultTTL is how long contributor lists and resolved handles are kept.
const DefaultTTL = 24 * time.Hour

type CacheCommand struct {
	newCache func() (*cache.Cache, error)
}

func NewCacheCommand() *CacheCommand {
	return &CacheCommand{newCache: func() (*cache.Cache, error) {
		return cache.NewCache(DefaultTTL)
	}}
}

// NewCacheCommandInDir works on a cache rooted at dir.
func NewCacheCommandInDir(dir string) *CacheCommand {
	return &CacheCommand{newCache: func() (*cache.Cache, error) {
		return cache.NewCacheInDir(dir, DefaultTTL)
	}}
}

func (c *CacheCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: t.GetMessage("cache.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "clean",
				Usage: t.GetMessage("cache.clean_usage", 0, nil),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "expired",
						Usage: t.GetMessage("flags.expired", 0, nil),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cacheService, err := c.newCache()
					if err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_init", 0, nil)+": %w", err)
					}

					clean := cacheService.Clean
					if cmd.Bool("expired") {
						clean = cacheService.CleanExpired
					}
					if err := clean(); err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_clean", 0, nil)+": %w", err)
					}

					ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("cache.cleaned", 0, nil))
					return nil
				},
			},
			{
				Name:  "path",
				Usage: t.GetMessage("cache.path_usage", 0, nil),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cacheService, err := c.newCache()
					if err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_init", 0, nil)+": %w", err)
					}
					_, _ = fmt.Fprintln(cmd.Root().Writer, cacheService.Dir())
					return nil
				},
			},
		},
	}
}
