package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"wordplay-service/internal/domain"
	"wordplay-service/internal/game"
)

const (
	leaderboardLimit = 50
	userResultsLimit = 10
)

// GameService is the operation surface used by the transport layer. Each method loads one record,
// applies the pure game logic to it and persists the outcome.
type GameService struct {
	games      GameRepository
	plays      PlayRepository
	cache      GameCache
	thumbnails ThumbnailStore
	publisher  LeaderboardPublisher
	hub        *LeaderboardHub
	now        func() time.Time
	newID      func() string
}

// Option customizes a GameService.
type Option func(*GameService)

// WithCache routes play flows through a read-through cache.
func WithCache(cache GameCache) Option {
	return func(s *GameService) { s.cache = cache }
}

// WithThumbnails sets the blob store used for thumbnails.
func WithThumbnails(store ThumbnailStore) Option {
	return func(s *GameService) { s.thumbnails = store }
}

// WithPublisher overrides where fresh leaderboards are published. Defaults to the local hub.
func WithPublisher(p LeaderboardPublisher) Option {
	return func(s *GameService) { s.publisher = p }
}

// WithHub sets the hub that live subscribers attach to.
func WithHub(h *LeaderboardHub) Option {
	return func(s *GameService) { s.hub = h }
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

func NewGameService(games GameRepository, plays PlayRepository, opts ...Option) *GameService {
	s := &GameService{
		games: games,
		plays: plays,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = NewLeaderboardHub()
	}
	if s.publisher == nil {
		s.publisher = s.hub
	}
	return s
}

// CreateGame stores a new game owned by who.
func (s *GameService) CreateGame(ctx context.Context, kind domain.Kind, who domain.Identity, in domain.CreateGameInput) (domain.GameRecord, error) {
	if who.Anonymous() {
		return domain.GameRecord{}, domain.ErrAnonymous
	}
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if err := game.ValidateName(name); err != nil {
		return domain.GameRecord{}, err
	}
	if err := game.ValidateDescription(desc); err != nil {
		return domain.GameRecord{}, err
	}
	doc, err := game.BuildDocument(kind, in.Questions)
	if err != nil {
		return domain.GameRecord{}, err
	}
	if in.IsPublished {
		if err := game.CanPublish(doc); err != nil {
			return domain.GameRecord{}, err
		}
	}
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return domain.GameRecord{}, err
	}

	now := s.now()
	return s.games.Create(ctx, domain.GameRecord{
		ID:          s.newID(),
		Kind:        kind,
		CreatorID:   who.UserID,
		Name:        name,
		Description: desc,
		IsPublished: in.IsPublished,
		Content:     doc,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// ListGames returns the caller's games of the given kind, newest first.
func (s *GameService) ListGames(ctx context.Context, kind domain.Kind, who domain.Identity) ([]domain.GameSummary, error) {
	if who.Anonymous() {
		return nil, domain.ErrAnonymous
	}
	recs, err := s.games.ListByCreator(ctx, kind, who.UserID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	out := make([]domain.GameSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.GameSummary{
			ID:            rec.ID,
			Name:          rec.Name,
			Description:   rec.Description,
			Thumbnail:     rec.Thumbnail,
			IsPublished:   rec.IsPublished,
			TotalPlayed:   rec.TotalPlayed,
			QuestionCount: len(rec.Content.Questions),
			CreatedAt:     rec.CreatedAt,
			UpdatedAt:     rec.UpdatedAt,
		})
	}
	return out, nil
}

// GetGame returns the full record, answer keys included, to its owner.
func (s *GameService) GetGame(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity) (domain.GameRecord, error) {
	return s.resolveOwned(ctx, kind, gameID, who)
}

// UpdateGame applies a metadata update. A non-nil question list replaces the whole document.
func (s *GameService) UpdateGame(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity, in domain.UpdateGameInput) (domain.GameRecord, error) {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return domain.GameRecord{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := game.ValidateName(name); err != nil {
			return domain.GameRecord{}, err
		}
		if name != rec.Name {
			if err := s.ensureNameFree(ctx, name, rec.ID); err != nil {
				return domain.GameRecord{}, err
			}
		}
		rec.Name = name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if err := game.ValidateDescription(desc); err != nil {
			return domain.GameRecord{}, err
		}
		rec.Description = desc
	}
	if in.Questions != nil {
		if len(*in.Questions) == 0 {
			return domain.GameRecord{}, fmt.Errorf("%w: a replacement question list must not be empty", domain.ErrValidation)
		}
		doc, err := game.BuildDocument(kind, *in.Questions)
		if err != nil {
			return domain.GameRecord{}, err
		}
		rec.Content = doc
	}
	if in.IsPublished != nil {
		if *in.IsPublished && !rec.IsPublished {
			if err := game.CanPublish(rec.Content); err != nil {
				return domain.GameRecord{}, err
			}
		}
		rec.IsPublished = *in.IsPublished
	}
	return s.save(ctx, rec)
}

// SetThumbnail uploads a new thumbnail and removes the previous one.
func (s *GameService) SetThumbnail(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity, filename string, r io.Reader) (domain.GameRecord, error) {
	if s.thumbnails == nil {
		return domain.GameRecord{}, fmt.Errorf("%w: thumbnail uploads are disabled", domain.ErrValidation)
	}
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return domain.GameRecord{}, err
	}
	stored, err := s.thumbnails.Upload(ctx, thumbnailDir(rec), filename, r)
	if err != nil {
		return domain.GameRecord{}, err
	}
	old := rec.Thumbnail
	rec.Thumbnail = stored
	saved, err := s.save(ctx, rec)
	if err != nil {
		_ = s.thumbnails.Remove(ctx, stored)
		return domain.GameRecord{}, err
	}
	if old != "" && old != stored {
		// an orphaned file is harmless once the record points at the new one
		_ = s.thumbnails.Remove(ctx, old)
	}
	return saved, nil
}

// DeleteGame removes the game, its uploaded files and, through the store, its leaderboard.
func (s *GameService) DeleteGame(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity) error {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return err
	}
	if err := s.games.Delete(ctx, rec.ID); err != nil {
		return err
	}
	s.invalidate(ctx, rec.ID)
	if s.thumbnails != nil {
		// leftover files are unreachable once the record is gone
		_ = s.thumbnails.RemoveFolder(ctx, thumbnailDir(rec))
	}
	return nil
}

// ListQuestions returns every question, answer keys included, to the owner.
func (s *GameService) ListQuestions(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity) ([]domain.Question, error) {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return nil, err
	}
	return rec.Content.Clone().Questions, nil
}

// GetQuestion returns one question to the owner.
func (s *GameService) GetQuestion(ctx context.Context, kind domain.Kind, gameID, questionID string, who domain.Identity) (domain.Question, error) {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return domain.Question{}, err
	}
	return game.FindQuestion(rec.Content, questionID)
}

// AddQuestion appends a question and persists the document.
func (s *GameService) AddQuestion(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity, in domain.QuestionInput) (domain.Question, error) {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return domain.Question{}, err
	}
	doc, q, err := game.AddQuestion(rec.Content, kind, in)
	if err != nil {
		return domain.Question{}, err
	}
	rec.Content = doc
	if _, err := s.save(ctx, rec); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// UpdateQuestion applies a partial update to one question.
func (s *GameService) UpdateQuestion(ctx context.Context, kind domain.Kind, gameID, questionID string, who domain.Identity, patch domain.QuestionPatch) (domain.Question, error) {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return domain.Question{}, err
	}
	doc, q, err := game.UpdateQuestion(rec.Content, kind, questionID, patch)
	if err != nil {
		return domain.Question{}, err
	}
	rec.Content = doc
	if _, err := s.save(ctx, rec); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// DeleteQuestion removes one question. A published game stays published even when emptied.
func (s *GameService) DeleteQuestion(ctx context.Context, kind domain.Kind, gameID, questionID string, who domain.Identity) error {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return err
	}
	doc, err := game.DeleteQuestion(rec.Content, questionID)
	if err != nil {
		return err
	}
	rec.Content = doc
	_, err = s.save(ctx, rec)
	return err
}

// PublishGame opens the game for play. Games without questions cannot be published.
func (s *GameService) PublishGame(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity) (domain.GameRecord, error) {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return domain.GameRecord{}, err
	}
	if err := game.CanPublish(rec.Content); err != nil {
		return domain.GameRecord{}, err
	}
	rec.IsPublished = true
	return s.save(ctx, rec)
}

// UnpublishGame hides the game from players.
func (s *GameService) UnpublishGame(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity) (domain.GameRecord, error) {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return domain.GameRecord{}, err
	}
	rec.IsPublished = false
	return s.save(ctx, rec)
}

// PlayView returns the player-safe view of a published game.
func (s *GameService) PlayView(ctx context.Context, kind domain.Kind, gameID string) (domain.PlayView, error) {
	rec, err := s.resolvePublished(ctx, kind, gameID)
	if err != nil {
		return domain.PlayView{}, err
	}
	return game.Project(rec), nil
}

// PreviewGame returns the player-safe view to the owner, published or not.
func (s *GameService) PreviewGame(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity) (domain.PlayView, error) {
	rec, err := s.resolveOwned(ctx, kind, gameID, who)
	if err != nil {
		return domain.PlayView{}, err
	}
	return game.Project(rec), nil
}

// CheckAnswer checks one answer against a published game.
func (s *GameService) CheckAnswer(ctx context.Context, kind domain.Kind, gameID string, answer domain.Answer) (domain.CheckResult, error) {
	rec, err := s.resolvePublished(ctx, kind, gameID)
	if err != nil {
		return domain.CheckResult{}, err
	}
	return game.CheckOne(rec.Content, answer.QuestionID, answer.Answer)
}

// SubmitAnswers scores a full run, records it on the leaderboard and notifies live subscribers.
// Anonymous players are allowed; their entry has no user id.
func (s *GameService) SubmitAnswers(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity, answers []domain.Answer, timeTaken *int) (domain.SubmissionResult, error) {
	rec, err := s.resolvePublished(ctx, kind, gameID)
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	result, err := game.SubmitAll(rec.Content, answers, timeTaken)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	entry := domain.LeaderboardEntry{
		ID:        s.newID(),
		GameID:    rec.ID,
		Score:     result.Score,
		TimeTaken: timeTaken,
		CreatedAt: s.now(),
	}
	if !who.Anonymous() {
		userID := who.UserID
		entry.UserID = &userID
	}
	if _, err := s.plays.RecordPlay(ctx, entry); err != nil {
		return domain.SubmissionResult{}, err
	}

	if top, err := s.plays.ListLeaderboard(ctx, rec.ID, leaderboardLimit); err == nil {
		// live fanout is best effort; the submission is already recorded
		_ = s.publisher.PublishLeaderboard(ctx, domain.Leaderboard{GameID: rec.ID, Entries: top, UpdatedAt: s.now()})
	}
	return result, nil
}

// Results returns the top of the leaderboard plus, for signed-in players, their own recent runs.
func (s *GameService) Results(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity) (domain.Leaderboard, error) {
	rec, err := s.resolvePublished(ctx, kind, gameID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	top, err := s.plays.ListLeaderboard(ctx, rec.ID, leaderboardLimit)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	lb := domain.Leaderboard{GameID: rec.ID, Entries: top, UpdatedAt: s.now()}
	if !who.Anonymous() {
		mine, err := s.plays.ListUserResults(ctx, rec.ID, who.UserID, userResultsLimit)
		if err != nil {
			return domain.Leaderboard{}, err
		}
		lb.UserResults = mine
	}
	return lb, nil
}

// Subscribe streams leaderboard snapshots for a published game. The first snapshot is the
// current leaderboard. The caller must invoke the returned cancel function.
func (s *GameService) Subscribe(ctx context.Context, kind domain.Kind, gameID string) (<-chan domain.Leaderboard, func(), error) {
	lb, err := s.Results(ctx, kind, gameID, domain.Identity{})
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(lb.GameID, lb)
	return ch, cancel, nil
}

func (s *GameService) resolveOwned(ctx context.Context, kind domain.Kind, gameID string, who domain.Identity) (domain.GameRecord, error) {
	if who.Anonymous() {
		return domain.GameRecord{}, domain.ErrAnonymous
	}
	rec, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return domain.GameRecord{}, err
	}
	if err := game.CanManage(rec, kind, who); err != nil {
		return domain.GameRecord{}, err
	}
	return rec, nil
}

func (s *GameService) resolvePublished(ctx context.Context, kind domain.Kind, gameID string) (domain.GameRecord, error) {
	var (
		rec domain.GameRecord
		err error
	)
	if s.cache != nil {
		rec, err = s.cache.GetGame(ctx, gameID)
	} else {
		rec, err = s.games.FindByID(ctx, gameID)
	}
	if err != nil {
		return domain.GameRecord{}, err
	}
	if err := game.CanPlay(rec, kind); err != nil {
		return domain.GameRecord{}, err
	}
	return rec, nil
}

func (s *GameService) save(ctx context.Context, rec domain.GameRecord) (domain.GameRecord, error) {
	rec.UpdatedAt = s.now()
	saved, err := s.games.Save(ctx, rec)
	if err != nil {
		return domain.GameRecord{}, err
	}
	s.invalidate(ctx, saved.ID)
	return saved, nil
}

// invalidate is best effort: the write is already committed and cached entries expire on their own.
func (s *GameService) invalidate(ctx context.Context, gameID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, gameID)
}

func (s *GameService) ensureNameFree(ctx context.Context, name, exceptID string) error {
	taken, err := s.games.NameTaken(ctx, name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrNameTaken
	}
	return nil
}

func thumbnailDir(rec domain.GameRecord) string {
	return path.Join("game", rec.Kind.Slug(), rec.ID)
}
