package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-aksi/internal/auth"
	"github.com/noah-isme/backend-aksi/internal/catalog"
	"github.com/noah-isme/backend-aksi/internal/client"
	"github.com/noah-isme/backend-aksi/internal/config"
	"github.com/noah-isme/backend-aksi/internal/db"
	"github.com/noah-isme/backend-aksi/internal/health"
	"github.com/noah-isme/backend-aksi/internal/notify"
	"github.com/noah-isme/backend-aksi/internal/obs"
	"github.com/noah-isme/backend-aksi/internal/order"
	"github.com/noah-isme/backend-aksi/internal/ratelimit"
	"github.com/noah-isme/backend-aksi/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "aksi")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "aksi-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if envBool("DB_AUTO_MIGRATE", true) {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "aksi-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if tracingEnabled {
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisOpts.Addr,
		Password: redisOpts.Password,
		DB:       redisOpts.DB,
	})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task queue client")
		}
	}()
	enqueuer := &notify.Enqueuer{Client: asynqClient, Queue: cfg.NotifyQueueName}

	catalogStore := catalog.NewStore(pool)
	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Store:        catalogStore,
		Cache:        catalog.NewCache(redisClient, cfg.PriceListCacheTTL),
		DefaultPage:  cfg.PriceListDefaultPage,
		DefaultLimit: cfg.PriceListLimit,
		MaxLimit:     cfg.PriceListMaxLimit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise price list service")
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogService})

	clientStore := client.NewStore(pool)
	clientService, err := client.NewService(client.ServiceConfig{
		Store:        clientStore,
		DefaultLimit: cfg.OrdersDefaultLimit,
		MaxLimit:     cfg.OrdersMaxLimit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise client service")
	}
	clientHandler := client.NewHandler(client.HandlerConfig{Service: clientService})

	orderService, err := order.NewService(order.ServiceConfig{
		Store:           order.NewStore(pool),
		Catalog:         catalogStore,
		Clients:         clientStore,
		Notifier:        enqueuer,
		Logger:          logger,
		StrictBasePrice: cfg.StrictBasePrice,
		DefaultLimit:    cfg.OrdersDefaultLimit,
		MaxLimit:        cfg.OrdersMaxLimit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise order service")
	}
	orderHandler := order.NewHandler(order.HandlerConfig{Service: orderService})

	authService, err := auth.NewService(auth.Config{
		Store:          auth.NewStore(pool),
		Secret:         cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
			logger.Fatal().Err(err).Msg("bootstrap admin account")
		}
	}
	authHandler := auth.NewHandler(auth.HandlerConfig{Service: authService})
	authMiddleware := auth.Middleware{Service: authService}

	loginLimiter, err := ratelimit.New(redisClient, cfg.LoginRateLimit, cfg.LoginRatePeriod)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise login rate limiter")
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, nil, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: cfg.AppEnv == "production"}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker:      health.Probe{Pool: pool, Redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/auth", func(a chi.Router) {
			a.With(loginLimiter.Middleware).Post("/login", authHandler.Login)
			a.Group(func(protected chi.Router) {
				protected.Use(authMiddleware.RequireAuth)
				protected.Get("/me", authHandler.Me)
				protected.With(authMiddleware.RequireAdmin).Post("/register", authHandler.Register)
			})
		})

		v.Route("/pricelist", func(p chi.Router) {
			p.Use(authMiddleware.RequireAuth)
			p.Get("/categories", catalogHandler.Categories)
			p.Get("/category/{name}", catalogHandler.ByCategory)
			p.Get("/search", catalogHandler.Search)
			p.Get("/special/coefficients", catalogHandler.SpecialCoefficients)
			p.Get("/{id}", catalogHandler.Get)
			p.Group(func(admin chi.Router) {
				admin.Use(authMiddleware.RequireAdmin)
				admin.Post("/", catalogHandler.Create)
				admin.Put("/{id}", catalogHandler.Update)
				admin.Delete("/{id}", catalogHandler.Delete)
			})
		})

		v.Route("/clients", func(c chi.Router) {
			c.Use(authMiddleware.RequireAuth)
			c.Get("/", clientHandler.List)
			c.Post("/", clientHandler.Create)
			c.Get("/search", clientHandler.Search)
			c.Get("/{id}", clientHandler.Get)
			c.Put("/{id}", clientHandler.Update)
			c.With(authMiddleware.RequireAdmin).Delete("/{id}", clientHandler.Delete)
		})

		v.Route("/orders", func(o chi.Router) {
			o.Use(authMiddleware.RequireAuth)
			o.Get("/", orderHandler.List)
			o.Post("/", orderHandler.Create)
			o.Get("/{id}", orderHandler.Get)
			o.Put("/{id}", orderHandler.Update)
			o.Patch("/{id}/status", orderHandler.ChangeStatus)
			o.With(authMiddleware.RequireAdmin).Delete("/{id}", orderHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown http server")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
