package main

import (
	"github.com/spf13/cobra"

	"github.com/plantops/plantops/migrations"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect schema migrations",
	}
	manager := func() application.MigrationManager {
		conf := configuration.Use()
		return application.NewMigrationManager(migrations.FS, conf.Database.Opts, conf.Logger())
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().Up(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().Down(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return manager().Status(cmd.Context())
		},
	})
	return cmd
}
