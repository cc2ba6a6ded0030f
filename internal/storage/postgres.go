package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"

	"github.com/CodeAfu/apu-code-collab-api/internal/config"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = fmt.Errorf("not found")

// DB is the query surface the stores run against. *pgxpool.Pool satisfies it;
// tests inject fakes.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CommandTag is the subset of pgconn.CommandTag the stores inspect.
type CommandTag interface {
	RowsAffected() int64
}

// poolDB adapts *pgxpool.Pool to the DB interface. The adaptation exists only
// because pgconn.CommandTag is a struct and cannot be faked directly.
type poolDB struct {
	pool *pgxpool.Pool
}

func (p poolDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p poolDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

func (p poolDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// Connect opens a pgx pool against the configured database and verifies it
// with a ping. The pool is shared by the migration stage, the seeders, and
// the HTTP handlers.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing postgres DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return pool, nil
}

// Store bundles all typed stores over one shared DB handle.
type Store struct {
	db DB

	Users        *UserStore
	Tokens       *TokenStore
	Catalog      *CatalogStore
	Repositories *RepositoryStore
}

// NewStore wires the typed stores over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return newStore(poolDB{pool: pool})
}

func newStore(db DB) *Store {
	return &Store{
		db:           db,
		Users:        &UserStore{db: db},
		Tokens:       &TokenStore{db: db},
		Catalog:      &CatalogStore{db: db},
		Repositories: &RepositoryStore{db: db},
	}
}

// Prober builds a health prober over the store's DB handle.
func (s *Store) Prober(cb *gobreaker.CircuitBreaker) *Prober {
	return NewProber(s.db, cb)
}
