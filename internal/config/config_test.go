package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "REDIS_URL", "STATS_CACHE_TTL", "TAX_RATE", "DELIVERY_FEE", "FLAT_DISCOUNT", "TIMEZONE", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, time.Minute, cfg.StatsCacheTTL)
	assert.True(t, cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.18")))
	assert.True(t, cfg.Pricing.DeliveryFee.Equal(decimal.NewFromInt(100)))
	assert.True(t, cfg.Pricing.FlatDiscount.IsZero())
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")
	t.Setenv("STATS_CACHE_TTL", "5m")
	t.Setenv("TAX_RATE", "0.16")
	t.Setenv("TIMEZONE", "Asia/Karachi")
	t.Setenv("ALLOWED_ORIGINS", " https://shop.example.com , ,https://admin.example.com")

	cfg := Load()

	assert.Equal(t, "https://api.example.com", cfg.PublicBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.StatsCacheTTL)
	assert.True(t, cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.16")))
	assert.Equal(t, "Asia/Karachi", cfg.Location.String())
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STATS_CACHE_TTL", "soon")
	t.Setenv("DELIVERY_FEE", "-5")
	t.Setenv("FLAT_DISCOUNT", "lots")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	cfg := Load()

	assert.Equal(t, time.Minute, cfg.StatsCacheTTL)
	assert.True(t, cfg.Pricing.DeliveryFee.Equal(decimal.NewFromInt(100)))
	assert.True(t, cfg.Pricing.FlatDiscount.IsZero())
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Equal(t, time.UTC, cfg.Location)
}
