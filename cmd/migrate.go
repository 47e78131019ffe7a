package cmd

import (
	"dispatch/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		if err = postgres.Migrate(db); err != nil {
			return err
		}
		logger.Info("schema is up to date", "database", cfg.DBName)
		return nil
	},
}
