package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/course-advisor-api/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the plan store schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction, err := parseDirection(args[0])
			if err != nil {
				return err
			}

			cfg, logr, err := bootstrap()
			if err != nil {
				return err
			}
			defer logr.Sync() //nolint:errcheck

			db, err := database.NewPostgres(cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			if err := database.Migrate(db, direction, logr); err != nil {
				logr.Error("migration failed", zap.String("direction", string(direction)), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s applied\n", direction)
			return nil
		},
	}
}

func parseDirection(raw string) (database.Direction, error) {
	switch database.Direction(raw) {
	case database.MigrateUp:
		return database.MigrateUp, nil
	case database.MigrateDown:
		return database.MigrateDown, nil
	default:
		return "", fmt.Errorf("unknown migration direction %q, expected up or down", raw)
	}
}
