package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/marmitar/busca-fuzzy/internal/config"
)

// buildCacheCmd forces a fresh scrape of every reference corpus and
// persists each one's cache file synchronously, then exits — a maintenance
// operation separate from `serve`'s cache-or-scrape request path.
func buildCacheCmd(envFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "build-cache",
		Short: "Scrape every corpus fresh and persist its cache file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			env, err := resolveEnv(*envFlag)
			if err != nil {
				return err
			}

			cfg := config.Load(env)
			ctx := context.Background()

			a := newApp(ctx, cfg, logger, true)
			if err := a.init.WaitAllBlocking(ctx); err != nil {
				return err
			}

			logger.Info("cache build complete", "cache_dir", cfg.CacheDirName)
			return nil
		},
	}
}
