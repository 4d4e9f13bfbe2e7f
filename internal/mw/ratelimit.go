package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's limiter survives without requests.
const limiterIdleTTL = 10 * time.Minute

// ClientLimiters keeps one token bucket per client IP. Buckets of clients
// that stay quiet for limiterIdleTTL are evicted.
type ClientLimiters struct {
	buckets *cache.Cache
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

// NewClientLimiters creates limiters allowing r requests per second with
// burst b for every client.
func NewClientLimiters(r rate.Limit, b int) *ClientLimiters {
	return &ClientLimiters{
		buckets: cache.New(limiterIdleTTL, 2*limiterIdleTTL),
		r:       r,
		b:       b,
	}
}

// For returns the limiter of ip, creating it on first use. Every call pushes
// the eviction deadline back.
func (l *ClientLimiters) For(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.buckets.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
	}
	l.buckets.SetDefault(ip, limiter)
	return limiter.(*rate.Limiter)
}

// Len reports how many clients are tracked.
func (l *ClientLimiters) Len() int {
	return l.buckets.ItemCount()
}

// RateLimiter is a middleware for IP-based rate limiting. Rejected requests
// get 429 with a Retry-After hint in whole seconds.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiters := NewClientLimiters(r, b)
	retryAfter := "1"
	if r > 0 && r < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / float64(r))))
	}
	return func(c *gin.Context) {
		if !limiters.For(c.ClientIP()).Allow() {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
