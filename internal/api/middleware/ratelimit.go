package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/apresmonbac/orientation/internal/metrics"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// MemoryLimiter is a per-key token bucket refilling limit tokens per window.
// Used when Redis is not configured; limits are per process.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
	maxIdle time.Duration
	sweeps  int
}

type memoryBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*memoryBucket), maxIdle: 10 * time.Minute}
}

func (l *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &memoryBucket{lim: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	l.sweeps++
	if l.sweeps%256 == 0 {
		for k, other := range l.buckets {
			if now.Sub(other.lastSeen) > l.maxIdle {
				delete(l.buckets, k)
			}
		}
	}
	return b.lim.AllowN(now, 1)
}

// RateLimit rejects with 429 once a client IP exceeds limit requests per window on route.
func RateLimit(limiter Limiter, route string, limit int, window time.Duration, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := "ratelimit:" + route + ":" + c.ClientIP()
		if limiter.Allow(key, limit, window) {
			c.Next()
			return
		}

		if m != nil {
			m.RateLimitBlocks.WithLabelValues(route).Inc()
		}
		c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, apiError{
			Code:    utils.CodeRateLimited,
			Message: "too many requests, please retry later",
		})
	}
}
