package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/noah-isme/backend-aksi/internal/common"
)

// Limiter throttles login attempts per client IP using a Redis-backed
// rate limiter.
type Limiter struct {
	limiter *limiter.Limiter
}

// New builds a Redis-backed limiter allowing limit requests per period.
func New(rdb *redis.Client, limit int64, period time.Duration) (*Limiter, error) {
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix: "ratelimit:login",
	})
	if err != nil {
		return nil, err
	}
	rate := limiter.Rate{Period: period, Limit: limit}
	return &Limiter{limiter: limiter.New(store, rate)}, nil
}

// Middleware rejects requests from clients that exceeded the rate with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l == nil || l.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		lctx, err := l.limiter.Get(r.Context(), common.ClientIP(r))
		if err != nil {
			// Redis trouble must not lock operators out.
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
		if lctx.Reached {
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts, try again later", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
