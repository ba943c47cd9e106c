package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"wordplay-service/internal/domain"
)

// GameLoader fetches a game from the backing store (e.g. the pgx loader).
type GameLoader interface {
	LoadGame(ctx context.Context, gameID string) (domain.GameRecord, error)
}

// generationTTL outlives any cached record, so an expired counter can only cause a skipped fill.
const generationTTL = 24 * time.Hour

var errStaleFill = errors.New("redis: game changed while loading")

// GameCache caches whole game records in Redis and falls back to a loader on miss.
// Records are stored as JSON: SET game:{gameID} {record} EX ttl
// Invalidate bumps game:{gameID}:gen; a fill is written only if that counter is unchanged
// since its load started, so a load racing a write cannot re-cache the old record.
type GameCache struct {
	client *redis.Client
	loader GameLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewGameCache(client *redis.Client, loader GameLoader, ttl time.Duration) *GameCache {
	return &GameCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *GameCache) GetGame(ctx context.Context, gameID string) (domain.GameRecord, error) {
	if rec, ok := c.lookup(ctx, gameID); ok {
		return rec, nil
	}

	result, err, _ := c.sf.Do(gameID, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if rec, ok := c.lookup(ctx, gameID); ok {
			return rec, nil
		}

		gen, err := c.generation(ctx, c.client, gameID)
		if err != nil {
			gen = -1
		}

		rec, err := c.loader.LoadGame(ctx, gameID)
		if err != nil {
			return domain.GameRecord{}, err
		}

		if ttl := c.ttlWithJitter(); ttl > 0 && gen >= 0 {
			// a failed or skipped fill only costs a reload next time
			_ = c.fill(ctx, gameID, gen, rec, ttl)
		}
		return rec, nil
	})
	if err != nil {
		return domain.GameRecord{}, err
	}
	return result.(domain.GameRecord).Clone(), nil
}

// Invalidate removes the cached record so the next read goes to the loader.
func (c *GameCache) Invalidate(ctx context.Context, gameID string) error {
	c.sf.Forget(gameID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(gameID))
		pipe.Expire(ctx, c.genKey(gameID), generationTTL)
		pipe.Del(ctx, c.key(gameID))
		return nil
	})
	return err
}

// fill stores rec unless the generation moved since gen was read.
func (c *GameCache) fill(ctx context.Context, gameID string, gen int64, rec domain.GameRecord, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(gameID), payload, ttl)
			return nil
		})
		return err
	}, c.genKey(gameID))
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *GameCache) generation(ctx context.Context, cmd stringGetter, gameID string) (int64, error) {
	gen, err := cmd.Get(ctx, c.genKey(gameID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// lookup treats any Redis error as a miss.
func (c *GameCache) lookup(ctx context.Context, gameID string) (domain.GameRecord, bool) {
	raw, err := c.client.Get(ctx, c.key(gameID)).Bytes()
	if err != nil {
		return domain.GameRecord{}, false
	}
	var rec domain.GameRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.GameRecord{}, false
	}
	if rec.Content.Questions == nil {
		rec.Content.Questions = []domain.Question{}
	}
	return rec, true
}

func (c *GameCache) key(gameID string) string {
	return "game:" + gameID
}

func (c *GameCache) genKey(gameID string) string {
	return "game:" + gameID + ":gen"
}

func (c *GameCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
