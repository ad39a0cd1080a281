package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/config"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// IdleTTL drops a client's bucket after this long without a request.
	IdleTTL time.Duration
	// MaxClients bounds the number of tracked buckets.
	MaxClients uint64
}

// DefaultRateLimitConfig returns production-ready rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
		IdleTTL:           10 * time.Minute,
		MaxClients:        10000,
	}
}

// RateLimitFromConfig maps the environment settings onto the middleware.
func RateLimitFromConfig(cfg config.RateLimitConfig) RateLimitConfig {
	out := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond > 0 {
		out.RequestsPerSecond = cfg.RequestsPerSecond
	}
	if cfg.Burst > 0 {
		out.Burst = cfg.Burst
	}
	return out
}

// RateLimit creates a per-IP rate limiting middleware. A bucket that sees no
// traffic for IdleTTL is evicted and the client starts over with a full burst.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultRateLimitConfig().IdleTTL
	}

	opts := []ttlcache.Option[string, *rate.Limiter]{
		ttlcache.WithTTL[string, *rate.Limiter](cfg.IdleTTL),
	}
	if cfg.MaxClients > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, *rate.Limiter](cfg.MaxClients))
	}
	clients := ttlcache.New[string, *rate.Limiter](opts...)

	newLimiter := func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	return func(c *gin.Context) {
		item, _ := clients.GetOrSet(c.ClientIP(), newLimiter())
		if !item.Value().Allow() {
			tooMany(c)
			return
		}
		c.Next()
	}
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			tooMany(c)
			return
		}
		c.Next()
	}
}

func tooMany(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error": "rate limit exceeded",
	})
	c.Abort()
}
