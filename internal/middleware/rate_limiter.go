package middleware

import (
	"sync"
	"time"

	"ledgerbook/internal/errors"
	"ledgerbook/internal/handlers"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// limiterRegistry hands out one token bucket per client IP and drops buckets
// for clients that have gone quiet.
type limiterRegistry struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
}

type clientLimiter struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

const clientIdleTimeout = 3 * time.Minute

func newLimiterRegistry(rps, burst int) *limiterRegistry {
	r := &limiterRegistry{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
	go r.evictIdle()
	return r
}

func (r *limiterRegistry) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[ip]
	if !ok {
		client = &clientLimiter{bucket: rate.NewLimiter(r.rps, r.burst)}
		r.clients[ip] = client
	}
	client.lastSeen = time.Now()

	return client.bucket.Allow()
}

func (r *limiterRegistry) evictIdle() {
	for {
		time.Sleep(time.Minute)

		r.mu.Lock()
		for ip, client := range r.clients {
			if time.Since(client.lastSeen) > clientIdleTimeout {
				delete(r.clients, ip)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimiter creates a middleware limiting requests per client IP.
// 5 req/sec with a burst of 10 leaves headroom for the web UI while still
// stopping credential stuffing.
func RateLimiter() echo.MiddlewareFunc {
	return RateLimiterWithConfig(5, 10)
}

// RateLimiterWithConfig creates a rate limiter with custom limits
func RateLimiterWithConfig(rps int, burst int) echo.MiddlewareFunc {
	registry := newLimiterRegistry(rps, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !registry.allow(getIP(c)) {
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}
			return next(c)
		}
	}
}

// getIP resolves the client address, trusting proxy headers first so limits
// land on the caller rather than the load balancer.
func getIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return c.RealIP()
}
