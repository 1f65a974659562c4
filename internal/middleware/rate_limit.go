// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/merchkit/catalog-admin/internal/config"
	"github.com/merchkit/catalog-admin/internal/utils"
)

const (
	sweepInterval = time.Minute
	staleAfter    = 3 * time.Minute
)

// client is one caller's token bucket plus its last activity, so idle
// entries can be swept.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands each caller IP its own token bucket.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	l := &IPRateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		burst:   burst,
	}
	go l.sweep()
	return l
}

func (l *IPRateLimiter) sweep() {
	for {
		time.Sleep(sweepInterval)
		l.mu.Lock()
		for ip, cl := range l.clients {
			if time.Since(cl.lastSeen) > staleAfter {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *IPRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter.Allow()
}

func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GeneralRateLimit throttles the whole route tree, listing reads included.
func GeneralRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	n := atLeastOne(cfg.GeneralPerSecond)
	return NewIPRateLimiter(rate.Limit(n), n).Middleware()
}

// AuthRateLimit keeps login guessing down to a per-minute budget.
func AuthRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	return NewIPRateLimiter(perMinute(cfg.AuthPerMinute), atLeastOne(cfg.AuthPerMinute)).Middleware()
}

// UploadRateLimit bounds multipart product submissions per operator IP.
func UploadRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	return NewIPRateLimiter(perMinute(cfg.UploadPerMinute), atLeastOne(cfg.UploadPerMinute)).Middleware()
}

func perMinute(n int) rate.Limit {
	return rate.Every(time.Minute / time.Duration(atLeastOne(n)))
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
