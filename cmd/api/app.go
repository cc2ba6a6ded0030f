package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CodeAfu/apu-code-collab-api/internal/auth"
	"github.com/CodeAfu/apu-code-collab-api/internal/config"
	"github.com/CodeAfu/apu-code-collab-api/internal/github"
	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
	"github.com/CodeAfu/apu-code-collab-api/internal/telemetry"
)

// AppContext holds all constructed application dependencies shared across
// subcommands. It is built once in PersistentPreRunE and referenced by
// serve.go, migrate.go, and seed.go.
type AppContext struct {
	cfg          *config.Config
	otelProvider *telemetry.Provider
	pool         *pgxpool.Pool
	store        *storage.Store
	auth         *auth.Service
	github       *github.Client
	prober       *storage.Prober
}

// buildAppContext constructs the application dependencies from cfg:
//  1. Initialises the OTEL provider (best-effort, non-fatal)
//  2. Opens the shared Postgres pool and the typed stores over it
//  3. Wires the auth service and the GitHub OAuth client
func buildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	app := &AppContext{cfg: cfg}

	// OTEL is best-effort: a missing collector must never block startup.
	// When OTLPEndpoint is empty, telemetry is disabled entirely — this avoids
	// the SDK's periodic-reader noise when no collector is running locally.
	if cfg.Telemetry.OTLPEndpoint == "" {
		slog.Info("OTEL telemetry disabled (no endpoint configured)")
	} else {
		tp, err := telemetry.InitProvider(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPInsecure)
		if err != nil {
			slog.Warn("OTEL provider init failed — telemetry disabled", "err", err)
		} else {
			app.otelProvider = tp
		}
	}

	pool, err := storage.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	app.pool = pool
	app.store = storage.NewStore(pool)
	app.prober = app.store.Prober(storage.NewBreaker("postgres"))

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	app.auth = auth.NewService(app.store.Users, app.store.Tokens, issuer)
	app.github = github.NewClient(cfg.GitHub, storage.NewBreaker("github"))

	return app, nil
}

// Close releases the app's long-lived resources. Safe on a partially built
// context.
func (a *AppContext) Close(ctx context.Context) {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.otelProvider != nil {
		if err := a.otelProvider.Shutdown(ctx); err != nil {
			slog.Warn("OTEL shutdown error", "err", err)
		}
	}
}
