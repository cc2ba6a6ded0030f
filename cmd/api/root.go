package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/CodeAfu/apu-code-collab-api/internal/boot"
	"github.com/CodeAfu/apu-code-collab-api/internal/config"
	"github.com/CodeAfu/apu-code-collab-api/internal/telemetry"
)

var (
	cfgFile  string
	logLevel string

	// cfg is populated by PersistentPreRunE and shared with all subcommands.
	cfg *config.Config

	// app holds all wired dependencies; populated by PersistentPreRunE.
	app *AppContext
)

var rootCmd = &cobra.Command{
	Use:   "codecollab-api",
	Short: "APU Code Collab — developer portfolio backend",
	Long: `The code-collab API serves student developer portfolios: accounts,
GitHub account linking, and the programming language / framework / course
catalogs. The serve command boots the database through migration and seeding
before binding the listener.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine; real env vars always win.
		godotenv.Load() //nolint:errcheck

		initLogger(logLevel)

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validating config: %w", err)
		}

		// --log-level flag takes precedence over value in config file.
		if cmd.Flags().Changed("log-level") {
			cfg.Telemetry.LogLevel = logLevel
		} else if cfg.Telemetry.LogLevel != "" {
			initLogger(cfg.Telemetry.LogLevel)
		}

		app, err = buildAppContext(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("building app context: %w", err)
		}

		return nil
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the CLI. The exit code mirrors the boot pipeline contract:
// a failed stage exits with that stage's code, anything else exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(boot.ExitCode(err))
	}
}

func initLogger(level string) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: telemetry.ParseLevel(level),
	})
	slog.SetDefault(slog.New(telemetry.NewTraceHandler(handler)))
}
