// Command agendahub serves the agenda web application.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/agendahub/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/agendahub/internal/config"
)

var version = "dev" // set via ldflags at build time

var rootCmd = &cobra.Command{
	Use:   "agendahub",
	Short: "Agenda board with a session-gated admin dashboard",
	Long: `agendahub publishes a list of upcoming activities and lets an
administrator manage them from a login-protected dashboard.

Running without a subcommand starts the server.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(passwdCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and installs the default logger at the
// configured level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

// openStore opens the database and brings the schema up to date. The caller
// owns the returned DB.
func openStore(ctx context.Context, cfg *config.Config) (*sqliteadapter.DB, error) {
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", db.Path())

	if err := sqliteadapter.RunMigrations(db.Writer, slog.Default()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("migrations complete")

	return db, nil
}

func closeStore(db *sqliteadapter.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
