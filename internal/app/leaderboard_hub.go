package app

import (
	"context"
	"sync"

	"wordplay-service/internal/domain"
)

// LeaderboardHub fans leaderboard snapshots out to in-process subscribers, keyed by game id.
type LeaderboardHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		subscribers: make(map[string]map[chan domain.Leaderboard]struct{}),
	}
}

// Subscribe registers a subscriber for gameID and queues initial as its first snapshot.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe(gameID string, initial domain.Leaderboard) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)
	ch <- initial

	h.mu.Lock()
	subs, ok := h.subscribers[gameID]
	if !ok {
		subs = make(map[chan domain.Leaderboard]struct{})
		h.subscribers[gameID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subscribers[gameID]
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.subscribers, gameID)
		}
	}
	return ch, cancel
}

// PublishLeaderboard implements LeaderboardPublisher for a single process.
func (h *LeaderboardHub) PublishLeaderboard(_ context.Context, lb domain.Leaderboard) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[lb.GameID] {
		select {
		case ch <- lb:
		default:
			// slow subscriber: drop its oldest snapshot so the newest always lands
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	return nil
}

// SubscriberCount reports how many live subscribers gameID has.
func (h *LeaderboardHub) SubscriberCount(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[gameID])
}
