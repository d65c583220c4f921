package workschedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheKey is the namespace holding the whole schedule set. The stored snapshot lives
// under CacheKey plus the current generation; any write bumps VersionKey.
const (
	CacheKey   = "work_schedules:all"
	VersionKey = "work_schedules:version"
)

const CacheTTL = 12 * time.Hour

// Cache stores schedule snapshots per generation. A snapshot loaded under an older
// generation is never served once Invalidate has run.
type Cache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64) ([]WorkSchedule, bool, error)
	Set(ctx context.Context, version int64, schedules []WorkSchedule) error
	Invalidate(ctx context.Context) error
}

// SnapshotKey is the redis key of the snapshot for one generation.
func SnapshotKey(version int64) string {
	return fmt.Sprintf("%s:v%d", CacheKey, version)
}

type redisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, VersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *redisCache) Get(ctx context.Context, version int64) ([]WorkSchedule, bool, error) {
	cached, err := c.rdb.Get(ctx, SnapshotKey(version)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var schedules []WorkSchedule
	if err := json.Unmarshal([]byte(cached), &schedules); err != nil {
		return nil, false, err
	}
	return schedules, true, nil
}

// Set writes under the generation the rows were read in. A stale generation lands on a
// key no reader asks for anymore and expires with CacheTTL.
func (c *redisCache) Set(ctx context.Context, version int64, schedules []WorkSchedule) error {
	payload, err := json.Marshal(schedules)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, SnapshotKey(version), string(payload), CacheTTL).Err()
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, VersionKey).Err()
}

type memoryCache struct {
	mu        sync.RWMutex
	version   int64
	schedules []WorkSchedule
	ok        bool
}

// NewMemoryCache is a process-local cache for deployments without Redis.
func NewMemoryCache() Cache {
	return &memoryCache{}
}

func (c *memoryCache) Version(context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version, nil
}

func (c *memoryCache) Get(_ context.Context, version int64) ([]WorkSchedule, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok || version != c.version {
		return nil, false, nil
	}
	out := make([]WorkSchedule, len(c.schedules))
	copy(out, c.schedules)
	return out, true, nil
}

func (c *memoryCache) Set(_ context.Context, version int64, schedules []WorkSchedule) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.version {
		return nil
	}
	c.schedules = make([]WorkSchedule, len(schedules))
	copy(c.schedules, schedules)
	c.ok = true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.schedules = nil
	c.ok = false
	return nil
}
