package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/varaamo-core/internal/infra/storage/migrations"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if err := migrations.Migrate(cmd.Context(), a.db); err != nil {
				a.log.Error("Migration failed: %v", err)
				return err
			}

			a.log.Info("Schema is up to date")
			return nil
		},
	}
}
