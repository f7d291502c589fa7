package http

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// SubmitLimiter throttles appointment submissions per caller. Limiters for
// idle callers are evicted once the cache is full.
type SubmitLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	r        rate.Limit
	b        int
}

func NewSubmitLimiter(perMinute float64, burst, size int) (*SubmitLimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, err
	}
	if burst < 1 {
		burst = 1
	}
	return &SubmitLimiter{
		limiters: cache,
		r:        rate.Limit(perMinute / 60),
		b:        burst,
	}, nil
}

func (l *SubmitLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(l.r, l.b)
	l.limiters.Add(key, lim)
	return lim
}

func (l *SubmitLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

// Middleware keys on the authenticated actor, falling back to the client IP.
func (l *SubmitLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := actorFrom(c).ID
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !l.Allow(key) {
			abort(c, http.StatusTooManyRequests, "too many submissions; try again in a minute")
			return
		}
		c.Next()
	}
}
