package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	summaryKeyPrefix     = "summary:text"
	summaryScanBatchSize = 100
	defaultSummaryTTL    = time.Hour
)

// SummaryCache stores remote summary responses keyed by model and input text.
type SummaryCache interface {
	Get(ctx context.Context, model, text string) (string, bool, error)
	Set(ctx context.Context, model, text, summary string) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSummaryCache struct{}

// NewSummaryCache returns a Redis cache when caching is enabled and a no-op
// cache otherwise.
func NewSummaryCache(ctx context.Context, cfg config.CacheConfig) (SummaryCache, error) {
	if !cfg.Enabled {
		return noopSummaryCache{}, nil
	}

	client, err := openRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisSummaryCache(client, summaryTTL(cfg)), nil
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) SummaryCache {
	return &redisSummaryCache{client: client, ttl: ttl}
}

// summaryTTL is CACHE_SUMMARY_TTL_SECONDS, or an hour when unset.
func summaryTTL(cfg config.CacheConfig) time.Duration {
	if cfg.SummaryTTLSeconds <= 0 {
		return defaultSummaryTTL
	}
	return time.Duration(cfg.SummaryTTLSeconds) * time.Second
}

func (c *redisSummaryCache) Get(ctx context.Context, model, text string) (string, bool, error) {
	summary, err := c.client.Get(ctx, SummaryKey(model, text)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return summary, true, nil
}

func (c *redisSummaryCache) Set(ctx context.Context, model, text, summary string) error {
	if err := c.client.Set(ctx, SummaryKey(model, text), summary, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSummaryCache) InvalidateAll(ctx context.Context) error {
	removed, err := unlinkMatching(ctx, c.client, summaryKeyPrefix+":*", summaryScanBatchSize)
	log.Info().Int("removed", removed).Msg("summary cache invalidated")
	return err
}

func (c *redisSummaryCache) Close() error {
	return c.client.Close()
}

func (noopSummaryCache) Get(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}

func (noopSummaryCache) Set(context.Context, string, string, string) error { return nil }

func (noopSummaryCache) InvalidateAll(context.Context) error { return nil }

func (noopSummaryCache) Close() error { return nil }

// SummaryKey hashes the model and input text into a cache key.
func SummaryKey(model, text string) string {
	sum := sha1.Sum([]byte(model + "\x00" + text))
	return fmt.Sprintf("%s:%s", summaryKeyPrefix, hex.EncodeToString(sum[:]))
}
