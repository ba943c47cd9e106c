package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"wordplay-service/internal/config"
	pgmigrations "wordplay-service/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	db := openDB(cfg.Postgres.URL)
	defer db.Close()
	return migrateDB(ctx, db, newLogger())
}

func openDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func migrateDB(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info("no new migrations")
		return nil
	}
	logger.Info("migrations applied", "group", group.String())
	return nil
}
