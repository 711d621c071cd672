package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/buildbot/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the submission, rejection and guild settings tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger := newLogger(cmd.OutOrStdout(), cfg)

		db, err := database.ConnectPostgres(cfg.DatabaseURL, cfg.LogLevel == "debug")
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := database.Migrate(db); err != nil {
			return err
		}

		logger.Info().Msg("database migrated")
		return nil
	},
}
