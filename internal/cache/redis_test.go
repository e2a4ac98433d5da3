package cache_test

import (
	"context"
	"testing"
	"time"

	"campgo/internal/cache"
	"campgo/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newCache(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewRedis(rdb, time.Minute, zaptest.NewLogger(t)), mr
}

func TestProductCache_HitMissInvalidate(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "tent-2p")
	assert.False(t, ok, "empty cache should miss")

	c.Set(ctx, &domain.Product{ID: "tent-2p", Name: "Trail Dome 2P", Price: 129.99, Stock: 12})
	assert.True(t, mr.Exists("product:tent-2p"))

	got, ok := c.Get(ctx, "tent-2p")
	require.True(t, ok)
	assert.Equal(t, "Trail Dome 2P", got.Name)
	assert.Equal(t, 12, got.Stock)

	c.Invalidate(ctx, "tent-2p", "other")
	_, ok = c.Get(ctx, "tent-2p")
	assert.False(t, ok)
}

func TestProductCache_TTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	c.Set(ctx, &domain.Product{ID: "bag-0c"})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "bag-0c")
	assert.False(t, ok)
}

func TestProductCache_DownIsAMiss(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	_, ok := c.Get(context.Background(), "tent-2p")
	assert.False(t, ok)
}
