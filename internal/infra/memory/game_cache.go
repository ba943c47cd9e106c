package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"wordplay-service/internal/domain"
)

// GameLoader fetches a game record from the backing store.
type GameLoader interface {
	LoadGame(ctx context.Context, gameID string) (domain.GameRecord, error)
}

// GameCache caches game records with a TTL to avoid repeated store hits on the play path.
type GameCache struct {
	loader GameLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedGame
	// gens is bumped by Invalidate; a load started under an older generation is not stored.
	gens map[string]uint64
}

type cachedGame struct {
	rec       domain.GameRecord
	expiresAt time.Time
}

func NewGameCache(loader GameLoader, ttl time.Duration) *GameCache {
	return &GameCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedGame),
		gens:   make(map[string]uint64),
	}
}

func (c *GameCache) GetGame(ctx context.Context, gameID string) (domain.GameRecord, error) {
	if rec, ok := c.lookup(gameID); ok {
		return rec, nil
	}

	result, err, _ := c.sf.Do(gameID, func() (interface{}, error) {
		if rec, ok := c.lookup(gameID); ok {
			return rec, nil
		}

		c.mu.RLock()
		gen := c.gens[gameID]
		c.mu.RUnlock()

		rec, err := c.loader.LoadGame(ctx, gameID)
		if err != nil {
			return domain.GameRecord{}, err
		}

		if ttl := c.ttlWithJitter(); ttl > 0 {
			c.mu.Lock()
			if c.gens[gameID] == gen {
				c.cache[gameID] = cachedGame{
					rec:       rec.Clone(),
					expiresAt: c.clock().Add(ttl),
				}
			}
			c.mu.Unlock()
		}
		return rec, nil
	})
	if err != nil {
		return domain.GameRecord{}, err
	}
	return result.(domain.GameRecord).Clone(), nil
}

// Invalidate drops the cached copy of gameID.
func (c *GameCache) Invalidate(_ context.Context, gameID string) error {
	c.mu.Lock()
	delete(c.cache, gameID)
	c.gens[gameID]++
	c.mu.Unlock()
	c.sf.Forget(gameID)
	return nil
}

func (c *GameCache) lookup(gameID string) (domain.GameRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.cache[gameID]; ok && entry.expiresAt.After(c.clock()) {
		return entry.rec.Clone(), true
	}
	return domain.GameRecord{}, false
}

func (c *GameCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
