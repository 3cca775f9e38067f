package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/online-market/internal/config"
)

func testRateConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Hour, // no refill within a test run
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl-test",
	}
}

func limited(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users/token", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/token")

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec
}

func TestTokenBucketExhaustsAndRejects(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mw := NewTokenBucket(testRateConfig(2), rdb)

	rec := limited(t, mw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = limited(t, mw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = limited(t, mw)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too_many_requests")
}

func TestTokenBucketFailsOpenWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(testRateConfig(1), nil)

	for i := 0; i < 5; i++ {
		rec := limited(t, mw)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestTokenBucketFailsOpenOnRedisError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close() // every script call now errors

	mw := NewTokenBucket(testRateConfig(1), rdb)
	for i := 0; i < 3; i++ {
		rec := limited(t, mw)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	req.RemoteAddr = "10.0.0.9:555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/users")

	cfg := testRateConfig(1)

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl-test:ip:10.0.0.9", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl-test:ip:10.0.0.9:route:POST /users", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl-test:user:anon", buildRateKey(cfg, c))
}
