package app

import (
	"context"
	"io"

	"wordplay-service/internal/domain"
)

// GameRepository persists game records. Lookups of unknown ids return domain.ErrGameNotFound.
type GameRepository interface {
	FindByID(ctx context.Context, gameID string) (domain.GameRecord, error)
	// NameTaken reports whether another game (other than exceptID) already uses name.
	NameTaken(ctx context.Context, name, exceptID string) (bool, error)
	ListByCreator(ctx context.Context, kind domain.Kind, creatorID string) ([]domain.GameRecord, error)
	Create(ctx context.Context, rec domain.GameRecord) (domain.GameRecord, error)
	// Save writes rec if the stored revision still equals rec.Revision and returns the record with
	// its revision bumped. A lost race yields domain.ErrStaleRevision.
	Save(ctx context.Context, rec domain.GameRecord) (domain.GameRecord, error)
	Delete(ctx context.Context, gameID string) error
}

// PlayRepository records completed plays and serves leaderboards.
type PlayRepository interface {
	// RecordPlay increments the game's play counter and stores entry as one unit of work.
	RecordPlay(ctx context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error)
	// ListLeaderboard returns entries ordered by score desc, time taken asc.
	ListLeaderboard(ctx context.Context, gameID string, limit int) ([]domain.LeaderboardEntry, error)
	// ListUserResults returns one user's entries, newest first.
	ListUserResults(ctx context.Context, gameID, userID string, limit int) ([]domain.LeaderboardEntry, error)
}

// GameCache is a read-through cache used by the play flows.
type GameCache interface {
	GetGame(ctx context.Context, gameID string) (domain.GameRecord, error)
	Invalidate(ctx context.Context, gameID string) error
}

// ThumbnailStore is the blob-storage collaborator. Upload returns the path token later passed
// to Remove.
type ThumbnailStore interface {
	Upload(ctx context.Context, dir, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
	RemoveFolder(ctx context.Context, dir string) error
}

// LeaderboardPublisher fans a fresh leaderboard out to live subscribers.
type LeaderboardPublisher interface {
	PublishLeaderboard(ctx context.Context, lb domain.Leaderboard) error
}
