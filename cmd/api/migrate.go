package main

import (
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"court-service/cmd/api/infrastructure"
	"court-service/migrations"
)

// migrateCommand constructs the 'migrate' subcommand that applies the schema
// migrations with goose and then river's queue migrations.
func migrateCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pool, err := infrastructure.NewPool(ctx, c.cfg, c.log)
			if err != nil {
				return err
			}
			defer pool.Close()

			// goose shares the pool through a database/sql wrapper
			db := stdlib.OpenDBFromPool(pool)
			defer func() { _ = db.Close() }()

			if err := migrations.Up(ctx, db); err != nil {
				return err
			}
			version, err := migrations.Version(ctx, db)
			if err != nil {
				return err
			}

			applied, err := migrations.River(ctx, pool)
			if err != nil {
				return err
			}

			c.log.Info("database migrated",
				zap.Int64("schema_version", version),
				zap.Int("river_versions_applied", applied),
			)
			return nil
		},
	}
}
