package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles the public RSVP and suggestion endpoints with a
// fixed window counter in Redis. When Redis is unreachable requests are
// let through rather than bounced.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{redis: redisClient, limit: limit, window: window}
}

// Limit is a route middleware keyed on scope + client IP.
func (r *RateLimiter) Limit(scope string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := fmt.Sprintf("ratelimit:%s:%s", scope, e.RealIP())
		if !r.allow(e.Request.Context(), key) {
			return apis.NewTooManyRequestsError("Too many requests, slow down.", nil)
		}
		return e.Next()
	}
}

func (r *RateLimiter) allow(ctx context.Context, key string) bool {
	if r.redis == nil {
		return true
	}

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		r.redis.Expire(ctx, key, r.window)
	}
	return count <= int64(r.limit)
}

// BlockBots rejects obvious scraper user agents on guest-facing routes.
func (r *RateLimiter) BlockBots() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if isSuspiciousUserAgent(e.Request.Header.Get("User-Agent")) {
			return apis.NewForbiddenError("Access denied", nil)
		}
		return e.Next()
	}
}

func isSuspiciousUserAgent(ua string) bool {
	suspicious := []string{"bot", "crawler", "spider", "scraper"}
	lower := strings.ToLower(ua)
	for _, pattern := range suspicious {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
