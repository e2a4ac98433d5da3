package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campgo/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProductCache holds catalog detail reads. Stock checks during checkout never read it.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool)
	Set(ctx context.Context, p *domain.Product)
	Invalidate(ctx context.Context, ids ...string)
}

func InitRedis(ctx context.Context, addr, password string, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established", zap.String("addr", addr))
	return rdb, nil
}

// Redis is a ProductCache over go-redis. Cache errors are logged, never returned.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedis(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Redis {
	return &Redis{rdb: rdb, ttl: ttl, logger: logger}
}

func productKey(id string) string { return fmt.Sprintf("product:%s", id) }

func (c *Redis) Get(ctx context.Context, id string) (*domain.Product, bool) {
	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache.get", zap.String("product_id", id), zap.Error(err))
		}
		return nil, false
	}
	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("cache.decode", zap.String("product_id", id), zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (c *Redis) Set(ctx context.Context, p *domain.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache.set", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (c *Redis) Invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache.invalidate", zap.Strings("product_ids", ids), zap.Error(err))
	}
}

// Noop is used when no redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*domain.Product, bool) { return nil, false }
func (Noop) Set(context.Context, *domain.Product)                {}
func (Noop) Invalidate(context.Context, ...string)               {}
