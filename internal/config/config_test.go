package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/aksi",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "test-secret",
		"PORT":         "",
		"APP_ENV":      "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 1, cfg.PriceListDefaultPage)
	require.Equal(t, 50, cfg.PriceListLimit)
	require.Equal(t, 200, cfg.PriceListMaxLimit)
	require.Equal(t, 20, cfg.OrdersDefaultLimit)
	require.Equal(t, int64(10), cfg.LoginRateLimit)
	require.Equal(t, "notifications", cfg.NotifyQueueName)
	require.False(t, cfg.StrictBasePrice)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":              "postgres://localhost:5432/aksi",
		"REDIS_URL":                 "redis://localhost:6379/0",
		"JWT_SECRET":                "test-secret",
		"PORT":                      "9090",
		"PRICELIST_CACHE_TTL":       "30m",
		"PRICING_STRICT_BASE_PRICE": "true",
		"CORS_ALLOWED_ORIGINS":      "https://a.example, https://b.example",
	})
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "30m0s", cfg.PriceListCacheTTL.String())
	require.True(t, cfg.StrictBasePrice)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadRequiresCoreSettings(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "test-secret",
	})
	require.Error(t, err)

	_, err = LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/aksi",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "",
	})
	require.Error(t, err)
}
