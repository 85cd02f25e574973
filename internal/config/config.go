package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	CORSAllowedOrigins []string

	AccessTokenTTL time.Duration

	PriceListCacheTTL    time.Duration
	PriceListDefaultPage int
	PriceListLimit       int
	PriceListMaxLimit    int

	OrdersDefaultLimit int
	OrdersMaxLimit     int

	// StrictBasePrice rejects price-list entries that carry no price at all
	// instead of pricing them at zero.
	StrictBasePrice bool

	LoginRateLimit  int64
	LoginRatePeriod time.Duration

	MaxBodyBytes int64

	NotifyQueueName   string
	NotifyConcurrency int

	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		AccessTokenTTL: parseDuration(k.String("ACCESS_TOKEN_TTL"), "8h"),

		PriceListCacheTTL:    parseDuration(k.String("PRICELIST_CACHE_TTL"), "10m"),
		PriceListDefaultPage: intOrDefault(k.Int("PRICELIST_DEFAULT_PAGE"), 1),
		PriceListLimit:       intOrDefault(k.Int("PRICELIST_DEFAULT_LIMIT"), 50),
		PriceListMaxLimit:    intOrDefault(k.Int("PRICELIST_MAX_LIMIT"), 200),

		OrdersDefaultLimit: intOrDefault(k.Int("ORDERS_DEFAULT_LIMIT"), 20),
		OrdersMaxLimit:     intOrDefault(k.Int("ORDERS_MAX_LIMIT"), 100),

		StrictBasePrice: parseBool(k.String("PRICING_STRICT_BASE_PRICE")),

		LoginRateLimit:  int64(intOrDefault(k.Int("LOGIN_RATE_LIMIT"), 10)),
		LoginRatePeriod: parseDuration(k.String("LOGIN_RATE_PERIOD"), "1m"),

		MaxBodyBytes: int64(intOrDefault(k.Int("HTTP_MAX_BODY_BYTES"), 1<<20)),

		NotifyQueueName:   valueOrDefault(k.String("NOTIFY_QUEUE_NAME"), "notifications"),
		NotifyConcurrency: intOrDefault(k.Int("NOTIFY_CONCURRENCY"), 4),

		BootstrapAdminEmail:    k.String("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: k.String("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func intOrDefault(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
