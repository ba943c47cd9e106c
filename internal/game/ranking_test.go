package game

import (
	"testing"
	"time"

	"wordplay-service/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestRankEntries(t *testing.T) {
	base := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	entries := []domain.LeaderboardEntry{
		{ID: "a", Score: 80, TimeTaken: intPtr(10), CreatedAt: base},
		{ID: "b", Score: 95, TimeTaken: intPtr(5), CreatedAt: base.Add(time.Second)},
		{ID: "c", Score: 95, TimeTaken: intPtr(8), CreatedAt: base.Add(2 * time.Second)},
	}
	RankEntries(entries)

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s (%+v)", i, id, entries[i].ID, entries)
		}
	}
}

func TestRankEntriesMissingTimeGoesLast(t *testing.T) {
	base := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	entries := []domain.LeaderboardEntry{
		{ID: "untimed", Score: 90, CreatedAt: base},
		{ID: "slow", Score: 90, TimeTaken: intPtr(300), CreatedAt: base.Add(time.Minute)},
		{ID: "late-untimed", Score: 90, CreatedAt: base.Add(time.Hour)},
	}
	RankEntries(entries)

	want := []string{"slow", "untimed", "late-untimed"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, entries[i].ID)
		}
	}
}
