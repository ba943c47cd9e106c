package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"wordplay-service/internal/domain"
)

const leaderboardPattern = "game:*:leaderboard"

// LeaderboardSink receives leaderboards relayed from any instance, typically the local hub.
type LeaderboardSink interface {
	PublishLeaderboard(ctx context.Context, lb domain.Leaderboard) error
}

// LeaderboardRelay shares leaderboard snapshots between service instances over Redis pub/sub.
// PublishLeaderboard broadcasts to every instance, including this one; Run delivers what arrives
// to the local sink.
type LeaderboardRelay struct {
	client *redis.Client
	sink   LeaderboardSink
}

func NewLeaderboardRelay(client *redis.Client, sink LeaderboardSink) *LeaderboardRelay {
	return &LeaderboardRelay{client: client, sink: sink}
}

func (r *LeaderboardRelay) PublishLeaderboard(ctx context.Context, lb domain.Leaderboard) error {
	payload, err := json.Marshal(lb)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	return r.client.Publish(ctx, channel(lb.GameID), payload).Err()
}

// Run forwards relayed leaderboards to the sink until ctx is done.
func (r *LeaderboardRelay) Run(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, leaderboardPattern)
	defer pubsub.Close()

	// wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe leaderboards: %w", err)
	}

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var lb domain.Leaderboard
			if err := json.Unmarshal([]byte(msg.Payload), &lb); err != nil {
				continue
			}
			if lb.GameID == "" {
				lb.GameID = gameIDFromChannel(msg.Channel)
			}
			_ = r.sink.PublishLeaderboard(ctx, lb)
		}
	}
}

func channel(gameID string) string {
	return "game:" + gameID + ":leaderboard"
}

func gameIDFromChannel(ch string) string {
	return strings.TrimSuffix(strings.TrimPrefix(ch, "game:"), ":leaderboard")
}
