package mw

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status   int
	headers  http.Header
	body     []byte
	storedAt time.Time
}

// recordingWriter copies everything written to the client into body.
type recordingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GET requests from store for ttl. Only 2xx responses
// are stored. A request with "Cache-Control: no-cache" skips the lookup and
// refreshes the entry, which is how the dashboard's refresh button gets new
// AI commentary. Responses carry X-Cache (HIT, MISS or REFRESH) and hits
// also carry Age.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.String()
		refresh := strings.Contains(c.GetHeader("Cache-Control"), "no-cache")

		if !refresh {
			if v, ok := store.Get(key); ok {
				hit := v.(cachedResponse)
				for k, vals := range hit.headers {
					c.Writer.Header()[k] = vals
				}
				c.Header("X-Cache", "HIT")
				c.Header("Age", strconv.Itoa(int(time.Since(hit.storedAt).Seconds())))
				c.Writer.WriteHeader(hit.status)
				c.Writer.Write(hit.body)
				c.Abort()
				return
			}
			c.Header("X-Cache", "MISS")
		} else {
			c.Header("X-Cache", "REFRESH")
		}

		rec := &recordingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			headers := rec.Header().Clone()
			headers.Del("X-Cache")
			store.Set(key, cachedResponse{
				status:   status,
				headers:  headers,
				body:     rec.body.Bytes(),
				storedAt: time.Now(),
			}, ttl)
		}
	}
}
