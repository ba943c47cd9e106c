package game

import (
	"sort"

	"wordplay-service/internal/domain"
)

// RankEntries orders leaderboard entries by score descending, then time taken ascending (entries
// without a time go last), then submission time. The slice is sorted in place.
func RankEntries(entries []domain.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		switch {
		case a.TimeTaken != nil && b.TimeTaken == nil:
			return true
		case a.TimeTaken == nil && b.TimeTaken != nil:
			return false
		case a.TimeTaken != nil && *a.TimeTaken != *b.TimeTaken:
			return *a.TimeTaken < *b.TimeTaken
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
