package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		db, err := openDatabase(cfg, logger)
		if err != nil {
			return err
		}
		closeDatabase(db, logger)

		logger.Info("schema up to date", zap.String("db", cfg.Database.Path))
		return nil
	},
}
