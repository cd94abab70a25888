package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmitar/busca-fuzzy/internal/config"
	"github.com/marmitar/busca-fuzzy/internal/httpapi"
)

// serveCmd is the default subcommand: boot every corpus's initialization
// task, serve the HTTP/WebSocket API, and shut down gracefully on
// SIGINT/SIGTERM.
func serveCmd(envFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the search server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			env, err := resolveEnv(*envFlag)
			if err != nil {
				return err
			}

			cfg := config.Load(env)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a := newApp(ctx, cfg, logger, false)
			if err := a.init.WaitAllBlocking(ctx); err != nil {
				logger.Warn("one or more corpora failed to initialize; serving with partial availability", "error", err)
			}

			router := httpapi.NewRouter(httpapi.Deps{
				Init:      a.init,
				Search:    a.search,
				Config:    cfg,
				PublicDir: filepath.Join(cfg.ResourcesDir, "Public"),
				Logger:    logger,
			})

			srv := &http.Server{
				Addr:         cfg.Addr(),
				Handler:      router,
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
				IdleTimeout:  cfg.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", "addr", cfg.Addr(), "env", env)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
					return
				}
				errCh <- nil
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				logger.Info("server stopped")
				return nil
			case err := <-errCh:
				return err
			}
		},
	}
	return cmd
}
