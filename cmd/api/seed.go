package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/CodeAfu/apu-code-collab-api/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the baseline reference data and exit",
	Long: `Seed inserts the university course, framework, and programming language
catalogs. Every row is insert-if-absent, so the command is safe to re-run
against an already-seeded database.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	slog.Info("starting seeding")

	seeders := seed.Registry(app.store.Catalog)
	if err := seed.RunAll(ctx, seeders); err != nil {
		printResult(map[string]string{"status": "error", "error": err.Error()})
		return fmt.Errorf("seeding failed: %w", err)
	}

	names := make([]string, len(seeders))
	for i, s := range seeders {
		names[i] = s.Name()
	}

	printResult(map[string]any{"status": "ok", "seeders": names})
	slog.Info("seeding completed successfully")
	return nil
}
