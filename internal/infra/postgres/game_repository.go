package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"wordplay-service/internal/domain"
)

const uniqueViolation = "23505"

// GameRepository stores games and leaderboard rows through bun.
// It implements app.GameRepository and app.PlayRepository.
type GameRepository struct {
	db *bun.DB
}

func NewGameRepository(db *bun.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) FindByID(ctx context.Context, gameID string) (domain.GameRecord, error) {
	return findGame(ctx, r.db, gameID)
}

func (r *GameRepository) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	q := r.db.NewSelect().Model((*gameRow)(nil)).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	exists, err := q.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check game name: %w", err)
	}
	return exists, nil
}

func (r *GameRepository) ListByCreator(ctx context.Context, kind domain.Kind, creatorID string) ([]domain.GameRecord, error) {
	var rows []gameRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("template_slug = ?", kind.Slug()).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	out := make([]domain.GameRecord, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record())
	}
	return out, nil
}

func (r *GameRepository) Create(ctx context.Context, rec domain.GameRecord) (domain.GameRecord, error) {
	rec.Revision = 1
	row := toGameRow(rec)
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.GameRecord{}, domain.ErrNameTaken
		}
		return domain.GameRecord{}, fmt.Errorf("insert game: %w", err)
	}
	return row.record(), nil
}

// Save updates the document and metadata columns. total_played and created_at are owned by
// RecordPlay and Create and are never written here.
func (r *GameRepository) Save(ctx context.Context, rec domain.GameRecord) (domain.GameRecord, error) {
	if _, err := uuid.Parse(rec.ID); err != nil {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}
	var saved domain.GameRecord
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := toGameRow(rec)
		row.Revision = rec.Revision + 1
		res, err := tx.NewUpdate().
			Model(row).
			Column("name", "description", "thumbnail_image", "is_published", "game_json", "revision", "updated_at").
			WherePK().
			Where("revision = ?", rec.Revision).
			Exec(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrNameTaken
			}
			return fmt.Errorf("update game: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := findGame(ctx, tx, rec.ID); err != nil {
				return err
			}
			return domain.ErrStaleRevision
		}
		saved, err = findGame(ctx, tx, rec.ID)
		return err
	})
	if err != nil {
		return domain.GameRecord{}, err
	}
	return saved, nil
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) error {
	if _, err := uuid.Parse(gameID); err != nil {
		return domain.ErrGameNotFound
	}
	res, err := r.db.NewDelete().Model((*gameRow)(nil)).Where("id = ?", gameID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

// RecordPlay bumps total_played and inserts the leaderboard row in one transaction.
func (r *GameRepository) RecordPlay(ctx context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error) {
	if _, err := uuid.Parse(entry.GameID); err != nil {
		return domain.LeaderboardEntry{}, domain.ErrGameNotFound
	}
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*gameRow)(nil)).
			Set("total_played = total_played + 1").
			Where("id = ?", entry.GameID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("increment total_played: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrGameNotFound
		}
		if _, err := tx.NewInsert().Model(toLeaderboardRow(entry)).Exec(ctx); err != nil {
			return fmt.Errorf("insert leaderboard entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	return entry, nil
}

func (r *GameRepository) ListLeaderboard(ctx context.Context, gameID string, limit int) ([]domain.LeaderboardEntry, error) {
	if _, err := uuid.Parse(gameID); err != nil {
		return []domain.LeaderboardEntry{}, nil
	}
	var rows []leaderboardRow
	q := r.db.NewSelect().
		Model(&rows).
		Where("game_id = ?", gameID).
		OrderExpr("score DESC, time_taken ASC NULLS LAST, created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	return entries(rows), nil
}

func (r *GameRepository) ListUserResults(ctx context.Context, gameID, userID string, limit int) ([]domain.LeaderboardEntry, error) {
	if _, err := uuid.Parse(gameID); err != nil {
		return []domain.LeaderboardEntry{}, nil
	}
	var rows []leaderboardRow
	q := r.db.NewSelect().
		Model(&rows).
		Where("game_id = ?", gameID).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list user results: %w", err)
	}
	return entries(rows), nil
}

func findGame(ctx context.Context, db bun.IDB, gameID string) (domain.GameRecord, error) {
	if _, err := uuid.Parse(gameID); err != nil {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}
	row := new(gameRow)
	err := db.NewSelect().Model(row).Where("id = ?", gameID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.GameRecord{}, domain.ErrGameNotFound
		}
		return domain.GameRecord{}, fmt.Errorf("select game: %w", err)
	}
	return row.record(), nil
}

func entries(rows []leaderboardRow) []domain.LeaderboardEntry {
	out := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entry())
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == uniqueViolation
	}
	return false
}
