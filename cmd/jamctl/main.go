package main

import (
	"log/slog"
	"os"

	"github.com/jamspace/jamspace/cmd/jamctl/cmd"
	"github.com/jamspace/jamspace/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	slog.SetDefault(logger.New(os.Stderr, "development", ""))

	rootCmd := &cobra.Command{
		Use:           "jamctl",
		Short:         "Operations tools for the jamspace store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.ReconcileCmd())
	rootCmd.AddCommand(cmd.KVCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
