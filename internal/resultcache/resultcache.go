// Package resultcache memoizes rule engine evaluation results in Redis,
// keyed by a hash of the URL and the rule set's identity, so repeated
// batches over overlapping URL sets can skip re-evaluation.
package resultcache

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ruleclassify/engine/internal/ruleconfig"
)

const (
	keyPrefix = "ruleclassify:result:"
	// noMatchSentinel distinguishes a cached "no rule matched" result from
	// a cache miss, since both would otherwise decode to an empty string.
	noMatchSentinel = "\x00NO_MATCH"
)

// Cache is a Redis-backed cache of evaluate() results, keyed by (rule set
// generation, URL).
type Cache struct {
	rdb        *redis.Client
	logger     *zap.Logger
	generation uint64
	ttl        time.Duration
}

// New connects to the Redis instance described by cfg and returns a Cache
// scoped to the given rule set generation (see NewGeneration). ttl is the
// expiration applied to every cached entry; zero means no expiration.
func New(cfg ruleconfig.RedisConfig, generation uint64, ttl time.Duration, logger *zap.Logger) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to result cache redis: %w", err)
	}

	return &Cache{rdb: rdb, logger: logger, generation: generation, ttl: ttl}, nil
}

// NewGeneration derives a stable identity for a loaded rule set from the
// raw bytes of its source file, so cache entries from a previous rule set
// version are never confused with the current one.
func NewGeneration(rulesSource []byte) uint64 {
	return xxhash.Sum64(rulesSource)
}

// Get returns the cached result for url, and whether it was present. A
// cached "no match" outcome is reported as ("", true); a genuine cache
// miss is ("", false).
func (c *Cache) Get(ctx context.Context, url string) (result string, ok bool, err error) {
	val, err := c.rdb.Get(ctx, c.key(url)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		c.logger.Warn("result cache get failed", zap.String("url", url), zap.Error(err))
		return "", false, err
	}
	if val == noMatchSentinel {
		return "", true, nil
	}
	return val, true, nil
}

// Set stores url's evaluation outcome. matched is false when no rule
// matched, in which case result is ignored and the no-match sentinel is
// stored instead.
func (c *Cache) Set(ctx context.Context, url, result string, matched bool) error {
	stored := result
	if !matched {
		stored = noMatchSentinel
	}
	if err := c.rdb.Set(ctx, c.key(url), stored, c.ttl).Err(); err != nil {
		c.logger.Warn("result cache set failed", zap.String("url", url), zap.Error(err))
		return err
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

func (c *Cache) key(url string) string {
	return fmt.Sprintf("%s%x:%x", keyPrefix, c.generation, xxhash.Sum64String(url))
}
