package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodeAfu/apu-code-collab-api/internal/api"
	"github.com/CodeAfu/apu-code-collab-api/internal/boot"
	"github.com/CodeAfu/apu-code-collab-api/internal/migrate"
	"github.com/CodeAfu/apu-code-collab-api/internal/seed"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Boot the database and start the HTTP API server",
	Long: `Serve runs the fixed three-stage boot pipeline — migrate, seed, serve —
strictly in order, halting on the first failure. The listener binds only after
migration and seeding have both succeeded; a failed boot exits with the
failing stage's code (migrate 1, seed 2, serve 3).

The server listens on the configured port (default :8000) and shuts down
cleanly on SIGTERM or SIGINT.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		app.Close(closeCtx)
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	// The serve stage assigns srv before the pipeline runs; the closure only
	// dereferences it once migrate and seed have succeeded.
	var srv *http.Server
	serverErr := make(chan error, 1)

	pipeline := boot.New(
		boot.Stage{
			Name:     boot.StageMigrate,
			ExitCode: boot.ExitMigrationFailed,
			Run: func(ctx context.Context) error {
				return migrate.Run(ctx, app.pool)
			},
		},
		boot.Stage{
			Name:     boot.StageSeed,
			ExitCode: boot.ExitSeedingFailed,
			Run: func(ctx context.Context) error {
				return seed.RunAll(ctx, seed.Registry(app.store.Catalog))
			},
		},
		boot.Stage{
			Name:     boot.StageServe,
			ExitCode: boot.ExitServerFailed,
			Run: func(ctx context.Context) error {
				ln, err := net.Listen("tcp", addr)
				if err != nil {
					return fmt.Errorf("binding %s: %w", addr, err)
				}
				go func() {
					if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						serverErr <- err
					}
				}()
				slog.InfoContext(ctx, "server listening", "addr", addr)
				return nil
			},
		},
	)

	router := api.NewRouter(api.Deps{
		Config:  cfg,
		Auth:    app.auth,
		Users:   app.store.Users,
		Catalog: app.store.Catalog,
		Repos:   app.store.Repositories,
		GitHub:  app.github,
		Probers: []api.Prober{app.prober},
		Boot:    pipeline,
		Limiter: api.NewLimiter(cfg.RateLimit, slog.Default()),
		Logger:  slog.Default(),
	})

	srv = &http.Server{
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if _, err := pipeline.Run(ctx); err != nil {
		// The *StageError carries the stage's exit code out through Execute.
		return err
	}

	select {
	case err := <-serverErr:
		return &boot.StageError{Stage: boot.StageServe, Code: boot.ExitServerFailed, Err: err}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped cleanly")
	return nil
}
