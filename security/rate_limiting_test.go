package security

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestAllow_UnderLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 5, time.Minute)

	mock.ExpectIncr("ratelimit:rsvp:1.2.3.4").SetVal(1)
	mock.ExpectExpire("ratelimit:rsvp:1.2.3.4", time.Minute).SetVal(true)

	assert.True(t, limiter.allow(context.Background(), "ratelimit:rsvp:1.2.3.4"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_OverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 5, time.Minute)

	mock.ExpectIncr("ratelimit:rsvp:1.2.3.4").SetVal(6)

	assert.False(t, limiter.allow(context.Background(), "ratelimit:rsvp:1.2.3.4"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_RedisDownFailsOpen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 5, time.Minute)

	mock.ExpectIncr("ratelimit:rsvp:1.2.3.4").SetErr(context.DeadlineExceeded)

	assert.True(t, limiter.allow(context.Background(), "ratelimit:rsvp:1.2.3.4"))
}

func TestAllow_NilRedis(t *testing.T) {
	limiter := NewRateLimiter(nil, 5, time.Minute)
	assert.True(t, limiter.allow(context.Background(), "any"))
}

func TestIsSuspiciousUserAgent(t *testing.T) {
	assert.True(t, isSuspiciousUserAgent("Googlebot/2.1"))
	assert.True(t, isSuspiciousUserAgent("my-scraper 1.0"))
	assert.False(t, isSuspiciousUserAgent("Mozilla/5.0 (X11; Linux x86_64)"))
	assert.False(t, isSuspiciousUserAgent(""))
}
