package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"recipe-catalog/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(size int, ttl time.Duration) config.CacheConfig {
	return config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: size, TTL: ttl}
}

func TestNewDisabledReturnsNil(t *testing.T) {
	c, err := New(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(config.CacheConfig{Enabled: true, Backend: "memcached"})
	assert.Error(t, err)
}

func TestManagerSetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memoryConfig(10, time.Minute))
	defer m.Close()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, m.Set(ctx, RecipeKey("1"), "value"))
	v, err := m.Get(ctx, RecipeKey("1"))
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	require.NoError(t, m.Delete(ctx, RecipeKey("1")))
	_, err = m.Get(ctx, RecipeKey("1"))
	assert.ErrorIs(t, err, ErrCacheMiss)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestManagerExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memoryConfig(10, 10*time.Millisecond))
	defer m.Close()

	require.NoError(t, m.Set(ctx, "k", "v"))
	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, m.GetStats().Size)
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memoryConfig(2, time.Minute))
	defer m.Close()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss, "b was never read and must be evicted first")
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = m.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestManagerOverwriteAtCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memoryConfig(1, time.Minute))
	defer m.Close()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "a", "2"))
	v, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	cfg := memoryConfig(1, time.Minute)
	cfg.CleanupInterval = time.Millisecond
	m := NewManager(cfg)
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping redis cache test")
	}

	ctx := context.Background()
	r, err := NewRedis(config.CacheConfig{RedisAddr: addr, TTL: time.Minute})
	require.NoError(t, err)
	defer r.Close()

	key := RecipeKey("redis-test")
	require.NoError(t, r.Set(ctx, key, "payload"))
	v, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "payload", v)

	require.NoError(t, r.Delete(ctx, key))
	_, err = r.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
