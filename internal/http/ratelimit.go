package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/allisson/fieldcrypt/internal/httputil"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTimeout   = time.Hour
)

type clientLimiter struct {
	*rate.Limiter
	lastSeen time.Time
}

// clientLimiters keeps one token bucket per client IP.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (l *clientLimiters) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok {
		cl = &clientLimiter{Limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.Limiter
}

// sweep drops buckets not used since cutoff and returns how many remain.
func (l *clientLimiters) sweep(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, cl := range l.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
	return len(l.clients)
}

func (l *clientLimiters) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now.Add(-limiterIdleTimeout))
		}
	}
}

// retryAfter is the whole number of seconds, at least one, until limiter has a token.
func retryAfter(limiter *rate.Limiter, now time.Time) int {
	r := limiter.ReserveN(now, 1)
	defer r.CancelAt(now)
	return max(1, int(math.Ceil(r.DelayFrom(now).Seconds())))
}

// RateLimitMiddleware answers 429 with a Retry-After header once a client IP drains its
// bucket. Idle buckets are swept until ctx is cancelled.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	limiters := newClientLimiters(rps, burst)
	go limiters.sweepLoop(ctx, limiterSweepInterval)

	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()
		limiter := limiters.get(ip, now)
		if limiter.AllowN(now, 1) {
			c.Next()
			return
		}

		wait := retryAfter(limiter, now)
		logger.DebugContext(c.Request.Context(), "rate limit exceeded",
			slog.String("client_ip", ip),
			slog.Int("retry_after", wait))

		c.Header("Retry-After", strconv.Itoa(wait))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
			Error:     "rate_limit_exceeded",
			Message:   "Too many requests, retry after " + strconv.Itoa(wait) + "s",
			RequestID: requestid.Get(c),
		})
	}
}
