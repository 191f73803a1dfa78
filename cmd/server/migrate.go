package main

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/zen-task-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		return database.MigrateDatabase(a.db, a.log)
	},
}
