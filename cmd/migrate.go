package cmd

import (
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		utils.LogInfo("Database migrated (%s)", cfg.DBDriver)
		return nil
	},
}
