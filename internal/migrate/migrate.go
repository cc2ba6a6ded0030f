// Package migrate applies the embedded SQL schema migrations in order,
// recording each applied version in the schema_migrations ledger. It is the
// first stage of the boot pipeline: the seeders and the HTTP server only run
// once every pending migration has been applied.
package migrate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is one schema revision: a numeric version, a human-readable name,
// and the SQL to run.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// DB is the subset of *pgxpool.Pool the applier needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var fileRe = regexp.MustCompile(`^(\d{4})_([a-z0-9_]+)\.sql$`)

// Load reads and orders the embedded migration set. Filenames must follow
// NNNN_name.sql; duplicate or gapless-but-misnamed versions are an error so
// a bad rebase is caught before anything touches the database.
func Load() ([]Migration, error) {
	return loadFrom(migrationFS, "migrations")
}

func loadFrom(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations dir: %w", err)
	}

	seen := make(map[int]string)
	var migrations []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("migration file %q does not match NNNN_name.sql", e.Name())
		}

		version, _ := strconv.Atoi(m[1])
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d (%s, %s)", version, prev, e.Name())
		}
		seen[version] = e.Name()

		sql, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", e.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    m[2],
			SQL:     string(sql),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Pending returns the migrations not yet recorded in applied, preserving
// order. Applied versions must form a prefix of the known set: an applied
// version the source does not know, or a hole in the applied sequence, is a
// conflicting-revision error and aborts the boot.
func Pending(migrations []Migration, applied []int) ([]Migration, error) {
	appliedSet := make(map[int]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	known := make(map[int]bool, len(migrations))
	for _, m := range migrations {
		known[m.Version] = true
	}
	for _, v := range applied {
		if !known[v] {
			return nil, fmt.Errorf("database has unknown migration version %d", v)
		}
	}

	var pending []Migration
	for _, m := range migrations {
		if appliedSet[m.Version] {
			if len(pending) > 0 {
				return nil, fmt.Errorf(
					"migration %04d is applied but earlier version %04d is not",
					m.Version, pending[0].Version,
				)
			}
			continue
		}
		pending = append(pending, m)
	}
	return pending, nil
}

// Run brings the database schema to the latest embedded revision. Each
// migration runs in its own transaction together with its ledger insert, so
// a failure leaves the schema at a recorded revision boundary.
func Run(ctx context.Context, db DB) error {
	migrations, err := Load()
	if err != nil {
		return err
	}

	if err := ensureLedger(ctx, db); err != nil {
		return err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	pending, err := Pending(migrations, applied)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "schema up to date", "version", latestVersion(migrations))
		return nil
	}

	for _, m := range pending {
		if err := applyOne(ctx, db, m); err != nil {
			return fmt.Errorf("applying %04d_%s: %w", m.Version, m.Name, err)
		}
		slog.InfoContext(ctx, "migration applied", "version", m.Version, "name", m.Name)
	}

	return nil
}

func ensureLedger(ctx context.Context, db DB) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("opening transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    integer PRIMARY KEY,
			name       text NOT NULL,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}
	return tx.Commit(ctx)
}

func appliedVersions(ctx context.Context, db DB) ([]int, error) {
	rows, err := db.Query(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func applyOne(ctx context.Context, db DB, m Migration) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("opening transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)",
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}

	return tx.Commit(ctx)
}

func latestVersion(migrations []Migration) int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}

// Describe returns a short "NNNN_name" label, used in one-shot command output.
func (m Migration) Describe() string {
	return fmt.Sprintf("%04d_%s", m.Version, strings.TrimSpace(m.Name))
}
