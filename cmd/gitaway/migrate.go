package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"git-away/internal/config"
	"git-away/internal/database"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  `Apply or roll back migrations on the database named by DB_DRIVER and DB_DSN.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadDatabase()
			if err := database.MigrateUp(&cfg); err != nil {
				return err
			}
			return printVersion(cmd, &cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadDatabase()
			if err := database.MigrateDown(&cfg); err != nil {
				return err
			}
			return printVersion(cmd, &cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadDatabase()
			return printVersion(cmd, &cfg)
		},
	})
	return cmd
}

func printVersion(cmd *cobra.Command, cfg *config.DatabaseConfig) error {
	version, dirty, err := database.MigrationVersion(cfg)
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d\n", version)
	return nil
}
