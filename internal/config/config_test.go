package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "campgo.db", cfg.DBDSN)
	assert.Equal(t, 10.0, cfg.ShippingFee)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "order_events", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.Production())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("SHIPPING_FEE", "12.5")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("MEDIA_BASE_URL", "https://cdn.example.com/media/")
	t.Setenv("PRODUCT_CACHE_TTL", "30s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, 12.5, cfg.ShippingFee)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "https://cdn.example.com/media", cfg.MediaBaseURL)
	assert.Equal(t, 30*time.Second, cfg.ProductCacheTTL)
}
