package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/CodeAfu/apu-code-collab-api/internal/config"
)

// limitCounter is the subset of the go-redis client the limiter uses.
// Implemented by *redis.Client and by test doubles.
type limitCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Limiter enforces fixed-window per-client request limits backed by redis.
// A nil Limiter disables limiting entirely; redis failures fail open so a
// degraded redis never takes the API down with it.
type Limiter struct {
	counter limitCounter
	logger  *slog.Logger
}

// NewLimiter builds a Limiter over a redis connection, or nil when rate
// limiting is disabled in config.
func NewLimiter(cfg config.RateLimitConfig, logger *slog.Logger) *Limiter {
	if !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Limiter{counter: client, logger: logger}
}

// Limit returns a middleware allowing at most max requests per client IP per
// window on the route it is attached to. Exceeding the limit yields 429.
func (l *Limiter) Limit(max int, window time.Duration) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())

		ctx := c.Request.Context()
		count, err := l.counter.Incr(ctx, key).Result()
		if err != nil {
			l.logger.WarnContext(ctx, "rate limiter unavailable, allowing request", "err", err)
			c.Next()
			return
		}
		if count == 1 {
			// First hit in the window owns setting its expiry.
			if err := l.counter.Expire(ctx, key, window).Err(); err != nil {
				l.logger.WarnContext(ctx, "rate limit window expiry failed", "key", key, "err", err)
			}
		}

		if count > int64(max) {
			renderError(c, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
