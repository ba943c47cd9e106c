package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"wordplay-service/internal/domain"
)

func TestGameCacheCaches(t *testing.T) {
	store := NewGameStore()
	seed(t, store, sampleGame())
	loader := &countingLoader{GameLoader: store}
	cache := NewGameCache(loader, time.Minute)

	if _, err := cache.GetGame(context.Background(), "game-1"); err != nil {
		t.Fatalf("get game: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := cache.GetGame(context.Background(), "game-1"); err != nil {
		t.Fatalf("get game 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestGameCacheInvalidate(t *testing.T) {
	store := NewGameStore()
	seed(t, store, sampleGame())
	loader := &countingLoader{GameLoader: store}
	cache := NewGameCache(loader, time.Minute)
	ctx := context.Background()

	_, _ = cache.GetGame(ctx, "game-1")
	if err := cache.Invalidate(ctx, "game-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = cache.GetGame(ctx, "game-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestGameCacheExpires(t *testing.T) {
	store := NewGameStore()
	seed(t, store, sampleGame())
	loader := &countingLoader{GameLoader: store}
	cache := NewGameCache(loader, time.Minute)
	now := time.Now()
	cache.clock = func() time.Time { return now }
	ctx := context.Background()

	_, _ = cache.GetGame(ctx, "game-1")
	now = now.Add(2 * time.Minute)
	_, _ = cache.GetGame(ctx, "game-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestGameCacheDoesNotCacheMisses(t *testing.T) {
	loader := &countingLoader{GameLoader: NewGameStore()}
	cache := NewGameCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.GetGame(context.Background(), "missing"); err != domain.ErrGameNotFound {
			t.Fatalf("expected game not found, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected misses to reach the loader, calls %d", loader.calls)
	}
}

func TestGameCacheDropsLoadRacingInvalidate(t *testing.T) {
	store := NewGameStore()
	rec := seed(t, store, sampleGame())
	loader := &blockingLoader{GameLoader: store, entered: make(chan struct{}), release: make(chan struct{})}
	cache := NewGameCache(loader, time.Minute)
	ctx := context.Background()

	done := make(chan domain.GameRecord)
	go func() {
		got, err := cache.GetGame(ctx, rec.ID)
		if err != nil {
			t.Errorf("racing get: %v", err)
		}
		done <- got
	}()
	<-loader.entered

	// the load above has already read the published record
	rec.IsPublished = false
	if _, err := store.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := cache.Invalidate(ctx, rec.ID); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	close(loader.release)
	if stale := <-done; !stale.IsPublished {
		t.Fatalf("expected the in-flight load to see the old record")
	}

	got, err := cache.GetGame(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if got.IsPublished {
		t.Fatalf("cache kept a record loaded before the invalidation")
	}
}

// blockingLoader reads the record, then waits for release before returning it.
type blockingLoader struct {
	GameLoader
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (l *blockingLoader) LoadGame(ctx context.Context, gameID string) (domain.GameRecord, error) {
	rec, err := l.GameLoader.LoadGame(ctx, gameID)
	first := false
	l.once.Do(func() { first = true })
	if first {
		close(l.entered)
		<-l.release
	}
	return rec, err
}

type countingLoader struct {
	GameLoader
	calls int
}

func (l *countingLoader) LoadGame(ctx context.Context, gameID string) (domain.GameRecord, error) {
	l.calls++
	return l.GameLoader.LoadGame(ctx, gameID)
}

func sampleGame() domain.GameRecord {
	return domain.GameRecord{
		ID:          "game-1",
		Kind:        domain.KindWordIt,
		CreatorID:   "u1",
		Name:        "Capitals",
		IsPublished: true,
		Content: domain.Document{Questions: []domain.Question{
			{ID: "q1", Sentence: "Capital of France", Options: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris"},
		}},
		CreatedAt: time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC),
	}
}

func seed(t *testing.T, store *GameStore, rec domain.GameRecord) domain.GameRecord {
	t.Helper()
	created, err := store.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return created
}
