package httpapi

import (
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("rate limit exceeded")

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterPruneInterval = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRateLimiter keeps one token bucket per client address.
type clientRateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastPrune time.Time
	now       func() time.Time
}

func newClientRateLimiter(rps float64, burst int) *clientRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientRateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

func (l *clientRateLimiter) reserve(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) >= limiterPruneInterval {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) >= limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastPrune = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	if c.limiter.AllowN(now, 1) {
		return true, 0
	}
	return false, time.Duration(float64(time.Second) / float64(l.limit))
}

// RateLimit rejects clients exceeding rps requests per second (with burst)
// with 429. A non-positive rps disables limiting.
func RateLimit(rps float64, burst int, next http.Handler) http.Handler {
	if rps <= 0 {
		return next
	}
	return rateLimitWith(newClientRateLimiter(rps, burst), next)
}

func rateLimitWith(limiter *clientRateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isHealthCheckPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		allowed, retryAfter := limiter.reserve(clientKey(r))
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeError(r.Context(), w, errRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
