package cli

import (
	"context"
	"testing"

	"wordplay-service/internal/app"
	"wordplay-service/internal/domain"
	"wordplay-service/internal/infra/memory"
)

func TestSeedSampleGamesArePlayable(t *testing.T) {
	store := memory.NewGameStore()
	service := app.NewGameService(store, store)
	ctx := context.Background()

	if err := seedSampleGames(ctx, service); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for _, kind := range domain.Kinds() {
		games, err := service.ListGames(ctx, kind, sampleOwner)
		if err != nil {
			t.Fatalf("list %s: %v", kind, err)
		}
		if len(games) != 1 || !games[0].IsPublished {
			t.Fatalf("expected one published %s game, got %+v", kind, games)
		}
		if _, err := service.PlayView(ctx, kind, games[0].ID); err != nil {
			t.Fatalf("play %s: %v", kind, err)
		}
	}
}
