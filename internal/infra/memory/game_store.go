package memory

import (
	"context"
	"sort"
	"sync"

	"wordplay-service/internal/domain"
	"wordplay-service/internal/game"
)

// GameStore is an in-memory implementation of app.GameRepository and app.PlayRepository.
// It also satisfies GameLoader so it can back a GameCache.
type GameStore struct {
	mu      sync.RWMutex
	games   map[string]domain.GameRecord
	entries []domain.LeaderboardEntry
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]domain.GameRecord),
	}
}

func (s *GameStore) FindByID(_ context.Context, gameID string) (domain.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.games[gameID]
	if !ok {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}
	return rec.Clone(), nil
}

// LoadGame lets the store act as the backing loader of a GameCache.
func (s *GameStore) LoadGame(ctx context.Context, gameID string) (domain.GameRecord, error) {
	return s.FindByID(ctx, gameID)
}

func (s *GameStore) NameTaken(_ context.Context, name, exceptID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, rec := range s.games {
		if id != exceptID && rec.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *GameStore) ListByCreator(_ context.Context, kind domain.Kind, creatorID string) ([]domain.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GameRecord, 0)
	for _, rec := range s.games {
		if rec.Kind == kind && rec.CreatorID == creatorID {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *GameStore) Create(_ context.Context, rec domain.GameRecord) (domain.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[rec.ID]; ok {
		return domain.GameRecord{}, domain.ErrConflict
	}
	for _, other := range s.games {
		if other.Name == rec.Name {
			return domain.GameRecord{}, domain.ErrNameTaken
		}
	}
	rec.Revision = 1
	s.games[rec.ID] = rec.Clone()
	return rec, nil
}

func (s *GameStore) Save(_ context.Context, rec domain.GameRecord) (domain.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.games[rec.ID]
	if !ok {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}
	if current.Revision != rec.Revision {
		return domain.GameRecord{}, domain.ErrStaleRevision
	}
	for id, other := range s.games {
		if id != rec.ID && other.Name == rec.Name {
			return domain.GameRecord{}, domain.ErrNameTaken
		}
	}
	// counters are owned by RecordPlay, not by document writers
	rec.TotalPlayed = current.TotalPlayed
	rec.CreatedAt = current.CreatedAt
	rec.Revision++
	s.games[rec.ID] = rec.Clone()
	return rec, nil
}

// Delete removes the game and cascades to its leaderboard entries.
func (s *GameStore) Delete(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[gameID]; !ok {
		return domain.ErrGameNotFound
	}
	delete(s.games, gameID)
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.GameID != gameID {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

func (s *GameStore) RecordPlay(_ context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.games[entry.GameID]
	if !ok {
		return domain.LeaderboardEntry{}, domain.ErrGameNotFound
	}
	rec.TotalPlayed++
	s.games[entry.GameID] = rec
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *GameStore) ListLeaderboard(_ context.Context, gameID string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	out := make([]domain.LeaderboardEntry, 0)
	for _, e := range s.entries {
		if e.GameID == gameID {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	game.RankEntries(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *GameStore) ListUserResults(_ context.Context, gameID, userID string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	out := make([]domain.LeaderboardEntry, 0)
	for _, e := range s.entries {
		if e.GameID == gameID && e.UserID != nil && *e.UserID == userID {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
