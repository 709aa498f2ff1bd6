// Package cache keeps list snapshots in Redis so repeated list requests skip
// the store. Entries are JSON encoded and expire after a fixed TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this service.
const DefaultPrefix = "stockdesk:"

// generationSuffix names the counter bumped every time a key is deleted.
const generationSuffix = ":gen"

// setIfGeneration stores ARGV[2] under KEYS[1] only while the counter in
// KEYS[2] still equals ARGV[1]. ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// Cache provides snapshot caching on top of a Redis client.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	stats  stats
}

type stats struct {
	hits    atomic.Uint64
	misses  atomic.Uint64
	sets    atomic.Uint64
	deletes atomic.Uint64
	stale   atomic.Uint64
	errors  atomic.Uint64
}

// Stats is a point-in-time copy of the cache counters.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Sets    uint64  `json:"sets"`
	Deletes uint64  `json:"deletes"`
	Stale   uint64  `json:"stale"`
	Errors  uint64  `json:"errors"`
	HitRate float64 `json:"hitRate"`
}

// Options configure a Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Connect dials Redis and verifies the connection with PING.
func Connect(ctx context.Context, opts Options) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return New(client, DefaultPrefix, opts.TTL), nil
}

// New creates a cache over an existing client.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get decodes the value stored under key into dest and reports whether
// the key was present.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.stats.misses.Add(1)
			return false, nil
		}
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	c.stats.hits.Add(1)
	return true, nil
}

// Set stores value under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	c.stats.sets.Add(1)
	return nil
}

// Generation returns the delete counter of key. Missing counters read as 0.
func (c *Cache) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := c.client.Get(ctx, c.prefix+key+generationSuffix).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		c.stats.errors.Add(1)
		return 0, fmt.Errorf("cache generation %s: %w", key, err)
	}
	return gen, nil
}

// SetIfGeneration stores value under key only if key has not been deleted
// since Generation returned gen. It reports whether the value was stored.
func (c *Cache) SetIfGeneration(ctx context.Context, key string, gen int64, value any) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache encode %s: %w", key, err)
	}

	full := c.prefix + key
	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{full, full + generationSuffix},
		strconv.FormatInt(gen, 10), data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache set %s: %w", key, err)
	}
	if stored == 0 {
		c.stats.stale.Add(1)
		return false, nil
	}
	c.stats.sets.Add(1)
	return true, nil
}

// Delete removes the given keys and bumps their generation counters so
// snapshots loaded before the delete are not written back. Missing keys
// are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	dels := make([]*redis.IntCmd, len(keys))
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, k := range keys {
			dels[i] = pipe.Del(ctx, c.prefix+k)
			pipe.Incr(ctx, c.prefix+k+generationSuffix)
		}
		return nil
	})
	if err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache delete: %w", err)
	}
	for _, cmd := range dels {
		c.stats.deletes.Add(uint64(cmd.Val()))
	}
	return nil
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	s := Stats{
		Hits:    c.stats.hits.Load(),
		Misses:  c.stats.misses.Load(),
		Sets:    c.stats.sets.Load(),
		Deletes: c.stats.deletes.Load(),
		Stale:   c.stats.stale.Load(),
		Errors:  c.stats.errors.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// Ping checks that Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
