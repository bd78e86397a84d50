package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSummaryCache_DisabledIsNoop(t *testing.T) {
	c, err := NewSummaryCache(context.Background(), config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "m", "text", "summary"))

	got, ok, err := c.Get(ctx, "m", "text")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.NoError(t, c.InvalidateAll(ctx))
	assert.NoError(t, c.Close())
}

func TestSummaryKey(t *testing.T) {
	key := SummaryKey("openai/gpt-4o-mini", "great pizza")

	assert.True(t, strings.HasPrefix(key, summaryKeyPrefix+":"))
	assert.Len(t, strings.TrimPrefix(key, summaryKeyPrefix+":"), 40)
	assert.Equal(t, key, SummaryKey("openai/gpt-4o-mini", "great pizza"))
	assert.NotEqual(t, key, SummaryKey("other-model", "great pizza"))
	assert.NotEqual(t, key, SummaryKey("openai/gpt-4o-mini", "great pasta"))
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{RedisPassword: "secret", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://cache.internal:6380/1"})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 1, opts.DB)

	_, err = redisOptions(config.CacheConfig{RedisURL: "http://nope"})
	assert.Error(t, err)
}

func TestRedisOptions_PartialHost(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{RedisHost: "redis", RedisDB: 3})
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)
}

func TestSummaryTTL(t *testing.T) {
	assert.Equal(t, defaultSummaryTTL, summaryTTL(config.CacheConfig{}))
	assert.Equal(t, defaultSummaryTTL, summaryTTL(config.CacheConfig{SummaryTTLSeconds: -5}))
	assert.Equal(t, 90*time.Second, summaryTTL(config.CacheConfig{SummaryTTLSeconds: 90}))
}

func TestNewSummaryCache_UnreachableRedis(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSummaryCache(ctx, config.CacheConfig{Enabled: true, RedisHost: "127.0.0.1", RedisPort: "1"})
	assert.ErrorContains(t, err, "redis ping 127.0.0.1:1")
}
