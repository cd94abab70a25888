package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmitar/busca-fuzzy/internal/config"
)

func main() {
	var envFlag string

	root := &cobra.Command{
		Use:   "busca",
		Short: "busca-fuzzy — in-memory multi-corpus fuzzy search service",
		Long:  "Scrapes the reference corpora, builds weighted fuzzy-search indices, and serves ranked matches over HTTP and WebSocket.",
	}
	root.PersistentFlags().StringVar(&envFlag, "env", string(config.Production), "deployment profile: development, production, or testing")

	serve := serveCmd(&envFlag)
	root.RunE = serve.RunE
	root.AddCommand(serve, buildCacheCmd(&envFlag))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger sets up the process-wide structured logger: a JSON handler to
// stdout.
func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	return logger
}

func resolveEnv(raw string) (config.Env, error) {
	switch config.Env(raw) {
	case config.Development, config.Production, config.Testing:
		return config.Env(raw), nil
	default:
		return "", fmt.Errorf("invalid --env %q: must be development, production, or testing", raw)
	}
}
