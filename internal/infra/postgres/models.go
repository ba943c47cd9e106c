package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"wordplay-service/internal/domain"
)

type gameRow struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID           string          `bun:"id,pk,type:uuid"`
	TemplateSlug string          `bun:"template_slug,notnull"`
	CreatorID    string          `bun:"creator_id,notnull"`
	Name         string          `bun:"name,notnull"`
	Description  string          `bun:"description,notnull"`
	Thumbnail    string          `bun:"thumbnail_image,notnull"`
	IsPublished  bool            `bun:"is_published,notnull"`
	TotalPlayed  int             `bun:"total_played,notnull"`
	Revision     int64           `bun:"revision,notnull"`
	Content      domain.Document `bun:"game_json,type:jsonb,notnull"`
	CreatedAt    time.Time       `bun:"created_at,notnull"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull"`
}

type leaderboardRow struct {
	bun.BaseModel `bun:"table:leaderboard,alias:lb"`

	ID        string    `bun:"id,pk,type:uuid"`
	GameID    string    `bun:"game_id,type:uuid,notnull"`
	UserID    *string   `bun:"user_id"`
	Score     int       `bun:"score,notnull"`
	TimeTaken *int      `bun:"time_taken"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

func toGameRow(rec domain.GameRecord) *gameRow {
	return &gameRow{
		ID:           rec.ID,
		TemplateSlug: rec.Kind.Slug(),
		CreatorID:    rec.CreatorID,
		Name:         rec.Name,
		Description:  rec.Description,
		Thumbnail:    rec.Thumbnail,
		IsPublished:  rec.IsPublished,
		TotalPlayed:  rec.TotalPlayed,
		Revision:     rec.Revision,
		Content:      rec.Content.Clone(),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

// record converts the row back. Rows with a slug this build does not know keep KindUnknown and
// therefore never pass a kind check.
func (r *gameRow) record() domain.GameRecord {
	kind, _ := domain.ParseKind(r.TemplateSlug)
	content := r.Content.Clone()
	if content.Questions == nil {
		content.Questions = []domain.Question{}
	}
	return domain.GameRecord{
		ID:          r.ID,
		Kind:        kind,
		CreatorID:   r.CreatorID,
		Name:        r.Name,
		Description: r.Description,
		Thumbnail:   r.Thumbnail,
		IsPublished: r.IsPublished,
		TotalPlayed: r.TotalPlayed,
		Revision:    r.Revision,
		Content:     content,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toLeaderboardRow(e domain.LeaderboardEntry) *leaderboardRow {
	return &leaderboardRow{
		ID:        e.ID,
		GameID:    e.GameID,
		UserID:    e.UserID,
		Score:     e.Score,
		TimeTaken: e.TimeTaken,
		CreatedAt: e.CreatedAt,
	}
}

func (r leaderboardRow) entry() domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		ID:        r.ID,
		GameID:    r.GameID,
		UserID:    r.UserID,
		Score:     r.Score,
		TimeTaken: r.TimeTaken,
		CreatedAt: r.CreatedAt,
	}
}
