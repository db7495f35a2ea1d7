// Package cmd holds the bookswap command line: the web server plus a few
// administrative commands that share its configuration and database.
package cmd

import (
	"fmt"
	"os"

	"github.com/SShoshia/book-giveaway/config"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "bookswap",
	Short:         "Community used-book exchange",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd, bookCmd)
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		utils.LogError("%v", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	_ = utils.SyncLogger()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and initializes logging
func setup() (*config.Config, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := utils.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogDir); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

// openDB runs setup and returns a migrated database
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := setup()
	if err != nil {
		return nil, nil, err
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		utils.LogError("Failed to close database: %v", err)
	}
}
