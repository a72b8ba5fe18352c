package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/db"

	"github.com/spf13/cobra"
)

func UpCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(conn *sql.DB) error {
				return db.RunMigrations(conn, cfg.DBDriver)
			})
		},
	}
}

func DownCmd(cfg *config.Config) *cobra.Command {
	var steps int

	c := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return withDB(cfg, func(conn *sql.DB) error {
				for i := 0; i < steps; i++ {
					err := db.MigrateDown(conn, cfg.DBDriver)
					if err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	c.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")
	return c
}

func StatusCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the state of every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(conn *sql.DB) error {
				return db.MigrationStatus(conn, cfg.DBDriver)
			})
		},
	}
}

func withDB(cfg *config.Config, fn func(conn *sql.DB) error) error {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		closeErr := db.Close(database)
		if closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	return fn(database.DB)
}
