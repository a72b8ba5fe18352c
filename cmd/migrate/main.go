package main

import (
	"os"

	"github.com/fintrack/fintrack/cmd/migrate/cmd"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), "")

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations for fintrack",
	}

	rootCmd.AddCommand(cmd.UpCmd(cfg))
	rootCmd.AddCommand(cmd.DownCmd(cfg))
	rootCmd.AddCommand(cmd.StatusCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
