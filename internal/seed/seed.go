// Package seed populates the baseline reference data the application needs:
// university courses, frameworks, and programming languages. Seeders are
// idempotent — every row is insert-if-absent — so the set runs on every boot.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

// Seeder is one seeding routine. Run must be safe to execute repeatedly.
type Seeder interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry returns the seeders in their fixed execution order.
func Registry(catalog *storage.CatalogStore) []Seeder {
	return []Seeder{
		&courseSeeder{catalog: catalog},
		&frameworkSeeder{catalog: catalog},
		&languageSeeder{catalog: catalog},
	}
}

// RunAll executes the seeders in order, halting on the first failure. A
// failed seeder aborts the boot — the server never starts over a partially
// seeded database.
func RunAll(ctx context.Context, seeders []Seeder) error {
	slog.InfoContext(ctx, "seeding started", "seeders", len(seeders))

	for _, s := range seeders {
		slog.InfoContext(ctx, "running seeder", "name", s.Name())
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("seeding %s: %w", s.Name(), err)
		}
	}

	slog.InfoContext(ctx, "seeding complete")
	return nil
}
