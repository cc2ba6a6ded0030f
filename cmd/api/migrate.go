package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodeAfu/apu-code-collab-api/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	Long: `Migrate applies the embedded migration set to the configured database,
recording each applied version in the schema_migrations ledger. The command
runs once, prints a JSON result to stdout, and exits 0 on success or
non-zero on failure.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	slog.Info("starting migration")

	if err := migrate.Run(ctx, app.pool); err != nil {
		printResult(map[string]string{"status": "error", "error": err.Error()})
		return fmt.Errorf("migration failed: %w", err)
	}

	migrations, err := migrate.Load()
	if err != nil {
		return err
	}
	labels := make([]string, len(migrations))
	for i, m := range migrations {
		labels[i] = m.Describe()
	}

	printResult(map[string]any{"status": "ok", "migrations": labels})
	slog.Info("migration completed successfully")
	return nil
}

func printResult(result any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintln(os.Stdout, `{"status":"error"}`)
	}
}
