package cmd

import (
	"fmt"

	"github.com/paradoks/clubhub/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(env)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		logger.Info("schema migrated", "db_driver", env.DBDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
