package mw

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestCache(t *testing.T) {
	var calls atomic.Int32
	r := gin.New()
	r.Use(Cache(cache.New(time.Minute, time.Minute), time.Minute))
	r.GET("/ok", func(c *gin.Context) {
		calls.Add(1)
		c.JSON(http.StatusOK, gin.H{"n": calls.Load()})
	})
	r.GET("/fail", func(c *gin.Context) {
		calls.Add(1)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream"})
	})

	first := perform(r, http.MethodGet, "/ok")
	second := perform(r, http.MethodGet, "/ok")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, int32(1), calls.Load())

	assert.Equal(t, "0", second.Header().Get("Age"))

	perform(r, http.MethodGet, "/fail")
	perform(r, http.MethodGet, "/fail")
	assert.Equal(t, int32(3), calls.Load(), "errors are not cached")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Cache-Control", "no-cache")
	r.ServeHTTP(w, req)
	assert.Equal(t, "REFRESH", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"n":4}`, w.Body.String())

	after := perform(r, http.MethodGet, "/ok")
	assert.Equal(t, "HIT", after.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"n":4}`, after.Body.String(), "refresh replaces the cached entry")
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
	w := perform(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestClientLimiters(t *testing.T) {
	l := NewClientLimiters(rate.Limit(1), 1)

	a := l.For("10.0.0.1")
	assert.Same(t, a, l.For("10.0.0.1"))
	assert.NotSame(t, a, l.For("10.0.0.2"))
	assert.Equal(t, 2, l.Len())

	assert.True(t, a.Allow())
	assert.False(t, l.For("10.0.0.1").Allow(), "bucket is shared across calls")
	assert.True(t, l.For("10.0.0.2").Allow(), "clients do not share buckets")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/api/bots/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	perform(r, http.MethodGet, "/api/bots/BOT-99")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"path":"/api/bots/:id"`)
	assert.Contains(t, buf.String(), `"status":404`)
}
