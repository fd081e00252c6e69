package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"paycalc/internal/transport/http/api"
)

type keyFunc func(r *http.Request) string

type RateLimitOption func(*rateLimiter)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	keyFn     keyFunc
	idleTTL   time.Duration
	now       func() time.Time
	clients   map[string]*clientLimiter
	lastPrune time.Time
}

func withClock(now func() time.Time) RateLimitOption {
	return func(rl *rateLimiter) {
		rl.now = now
	}
}

// RateLimit allows limit requests per window for each client key, refilling
// continuously. A limit of zero or less disables limiting.
func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	rl := newRateLimiter(limit, window, clientIPKey)
	for _, opt := range opts {
		opt(rl)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPKey(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		parts := strings.Split(fwd, ",")
		if len(parts) > 0 {
			value := strings.TrimSpace(parts[0])
			if value != "" {
				return value
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func newRateLimiter(limit int, window time.Duration, keyFn keyFunc) *rateLimiter {
	if keyFn == nil {
		keyFn = clientIPKey
	}
	if window <= 0 {
		window = time.Minute
	}
	return &rateLimiter{
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		idleTTL: 2 * window,
		now:     time.Now,
		clients: map[string]*clientLimiter{},
	}
}

func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}

	key := rl.keyFn(r)
	if key == "" {
		key = clientIPKey(r)
	}
	now := rl.now()

	rl.mu.Lock()
	rl.prune(now)
	client, ok := rl.clients[key]
	if !ok {
		every := rl.window / time.Duration(rl.limit)
		client = &clientLimiter{limiter: rate.NewLimiter(rate.Every(every), rl.limit)}
		rl.clients[key] = client
	}
	client.lastSeen = now
	reservation := client.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
	}
	remaining := int(math.Floor(client.limiter.TokensAt(now)))
	rl.mu.Unlock()

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))

	if delay > 0 {
		retryAfter := durationSeconds(delay)
		w.Header().Set("X-RateLimit-Reset", strconv.Itoa(retryAfter))
		w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
		slog.Warn("rate limit exceeded",
			"key", key,
			"path", r.URL.Path,
			"method", r.Method,
			"limit", rl.limit,
			"windowSec", int(rl.window.Seconds()),
		)
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		return false
	}

	return true
}

// prune drops limiters that have been idle long enough to be full again.
func (rl *rateLimiter) prune(now time.Time) {
	if now.Sub(rl.lastPrune) < rl.idleTTL {
		return
	}
	rl.lastPrune = now
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}

func durationSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	seconds := int(math.Ceil(d.Seconds()))
	if seconds <= 0 {
		return 1
	}
	return seconds
}
