package cmd

import (
	"fmt"

	"github.com/jamspace/jamspace/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Schema migrations",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateVersionCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, driver, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			return db.RunMigrations(cmd.Context(), database.DB, driver)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, driver, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			return db.MigrateDown(cmd.Context(), database.DB, driver)
		},
	}
}

func migrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, driver, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			version, err := db.Version(cmd.Context(), database.DB, driver)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
