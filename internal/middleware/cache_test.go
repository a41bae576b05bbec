package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/wavesrc/resource-center/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
}

func TestRedisCache_SecondRequestIsAHit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var calls int32
	e := echo.New()
	e.GET("/books/", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, echo.Map{"books": []string{"clean-code"}})
	}, NewRedisCache(cacheTestConfig(), rdb))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/books/", nil))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/books/", nil))
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "HIT", second.Header().Get("X-Cache"))
	require.Equal(t, first.Body.String(), second.Body.String())
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRedisCache_QueryIsPartOfTheKey(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var calls int32
	e := echo.New()
	e.GET("/books/", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, echo.Map{"page": c.QueryParam("page")})
	}, NewRedisCache(cacheTestConfig(), rdb))

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books/?page=1", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books/?page=2", nil))
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRedisCache_DetailPagesAreCachedPerSlug(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var calls int32
	e := echo.New()
	e.GET("/books/:slug/", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, echo.Map{"slug": c.Param("slug")})
	}, NewRedisCache(cacheTestConfig(), rdb))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/books/the-gift/", nil))
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))
	require.JSONEq(t, `{"slug":"the-gift"}`, first.Body.String())

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/books/other-book/", nil))
	require.Equal(t, "MISS", second.Header().Get("X-Cache"))
	require.JSONEq(t, `{"slug":"other-book"}`, second.Body.String())
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))

	replay := httptest.NewRecorder()
	e.ServeHTTP(replay, httptest.NewRequest(http.MethodGet, "/books/the-gift/", nil))
	require.Equal(t, "HIT", replay.Header().Get("X-Cache"))
	require.JSONEq(t, `{"slug":"the-gift"}`, replay.Body.String())
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRedisCache_ErrorsAreNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var calls int32
	e := echo.New()
	e.GET("/books/:slug/", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
	}, NewRedisCache(cacheTestConfig(), rdb))

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books/nope/", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books/nope/", nil))
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRedisCache_DisabledPassesThrough(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.Enabled = false

	var calls int32
	e := echo.New()
	e.GET("/books/", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, echo.Map{})
	}, NewRedisCache(cfg, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("X-Cache"))
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
