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

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "test",
		MaxBodyBytes: 1 << 20,
	}
}

func runCached(t *testing.T, mw echo.MiddlewareFunc, method, target string, hits *int) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/products")

	h := mw(func(c echo.Context) error {
		*hits++
		return c.JSON(http.StatusOK, echo.Map{"hits": *hits})
	})
	require.NoError(t, h(c))
	return rec
}

func TestRedisCacheMissThenHit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mw := NewRedisCache(testCacheConfig(), rdb)

	hits := 0
	rec := runCached(t, mw, http.MethodGet, "/products?page=1", &hits)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits)
	first := rec.Body.String()

	rec = runCached(t, mw, http.MethodGet, "/products?page=1", &hits)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits, "handler must not run on a cache hit")
	assert.Equal(t, first, rec.Body.String())
}

func TestRedisCacheKeySeparatesPathParams(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mw := NewRedisCache(testCacheConfig(), rdb)

	e := echo.New()
	fetch := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/products/"+id, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/products/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)

		h := mw(func(c echo.Context) error {
			return c.JSON(http.StatusOK, echo.Map{"product_id": c.Param("id")})
		})
		require.NoError(t, h(c))
		return rec
	}

	rec := fetch("5")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"product_id":"5"`)

	// A different id under the same route pattern is its own entry and must
	// never be served the other product's body.
	rec = fetch("7")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"product_id":"7"`)

	rec = fetch("5")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"product_id":"5"`)
}

func TestRedisCacheKeyIncludesQuery(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mw := NewRedisCache(testCacheConfig(), rdb)

	hits := 0
	runCached(t, mw, http.MethodGet, "/products?page=1", &hits)
	rec := runCached(t, mw, http.MethodGet, "/products?page=2", &hits)

	// A different filter/page combination is its own entry.
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestRedisCacheSkipsOtherMethods(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mw := NewRedisCache(testCacheConfig(), rdb)

	hits := 0
	rec := runCached(t, mw, http.MethodPost, "/products", &hits)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits)

	rec = runCached(t, mw, http.MethodPost, "/products", &hits)
	assert.Equal(t, 2, hits)
}

func TestRedisCacheDisabledIsPassThrough(t *testing.T) {
	cfg := testCacheConfig()
	cfg.Enabled = false
	mw := NewRedisCache(cfg, nil)

	hits := 0
	for i := 0; i < 3; i++ {
		rec := runCached(t, mw, http.MethodGet, "/products", &hits)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 3, hits)
}

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}
