package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_games.sql
var createGamesSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createGamesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				for _, table := range []string{"leaderboard", "games", "game_templates"} {
					if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
						return err
					}
				}
				return nil
			})
		},
	)
}
