package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"wordplay-service/internal/domain"
)

// GameLoader loads a game with its JSONB document straight from Postgres. It backs the play-path
// caches and skips the ORM.
type GameLoader struct {
	pool *pgxpool.Pool
}

func NewGameLoader(pool *pgxpool.Pool) *GameLoader {
	return &GameLoader{pool: pool}
}

func (l *GameLoader) LoadGame(ctx context.Context, gameID string) (domain.GameRecord, error) {
	if _, err := uuid.Parse(gameID); err != nil {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}

	var (
		rec  domain.GameRecord
		slug string
		raw  []byte
	)
	err := l.pool.QueryRow(ctx, `
		SELECT id::text, template_slug, creator_id, name, description, thumbnail_image,
		       is_published, total_played, revision, game_json, created_at, updated_at
		FROM games WHERE id=$1`, gameID).Scan(
		&rec.ID, &slug, &rec.CreatorID, &rec.Name, &rec.Description, &rec.Thumbnail,
		&rec.IsPublished, &rec.TotalPlayed, &rec.Revision, &raw, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.GameRecord{}, domain.ErrGameNotFound
		}
		return domain.GameRecord{}, fmt.Errorf("load game: %w", err)
	}
	rec.Kind, _ = domain.ParseKind(slug)
	if err := json.Unmarshal(raw, &rec.Content); err != nil {
		return domain.GameRecord{}, fmt.Errorf("unmarshal game document: %w", err)
	}
	if rec.Content.Questions == nil {
		rec.Content.Questions = []domain.Question{}
	}
	return rec, nil
}
