package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter caps the number of evaluation requests a single client may
// issue per window. Clients are keyed by IP and tracked as fixed-window
// token buckets.
type RateLimiter struct {
	mu         sync.Mutex // plain Mutex; Allow is write-heavy so RWMutex buys nothing
	byIP       map[string]*bucket
	limit      int
	window     time.Duration
	pruneEvery time.Duration
	done       chan struct{}
}

// bucket holds the tokens left in a client's current window.
type bucket struct {
	left     int
	openedAt time.Time
}

// take consumes one token, opening a fresh window first if the current one
// has expired. Reports false when the bucket is empty.
func (b *bucket) take(now time.Time, limit int, window time.Duration) bool {
	if now.Sub(b.openedAt) >= window {
		b.left = limit
		b.openedAt = now
	}
	if b.left <= 0 {
		return false
	}
	b.left--
	return true
}

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	// RequestsPerMinute caps requests per client per minute. Defaults to 60.
	RequestsPerMinute int
	// CleanupInterval controls how often idle client entries are dropped.
	// Defaults to 5 minutes.
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig returns the defaults used by the server when no
// limiter configuration is supplied.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{RequestsPerMinute: 60, CleanupInterval: 5 * time.Minute}
}

// NewRateLimiter builds a limiter and starts its prune goroutine. Call Stop
// when the limiter is no longer needed.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	defaults := DefaultRateLimiterConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}

	rl := &RateLimiter{
		byIP:       make(map[string]*bucket),
		limit:      config.RequestsPerMinute,
		window:     time.Minute,
		pruneEvery: config.CleanupInterval,
		done:       make(chan struct{}),
	}
	go rl.pruneLoop()
	return rl
}

// Allow reports whether a request from clientIP fits within its current
// window. Each allowed request consumes one token.
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b := rl.byIP[clientIP]
	if b == nil {
		b = &bucket{}
		rl.byIP[clientIP] = b
	}
	return b.take(time.Now(), rl.limit, rl.window)
}

// pruneLoop periodically drops clients idle for more than two windows.
func (rl *RateLimiter) pruneLoop() {
	ticker := time.NewTicker(rl.pruneEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.prune(time.Now())
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) prune(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.byIP {
		if now.Sub(b.openedAt) > 2*rl.window {
			delete(rl.byIP, ip)
		}
	}
}

// Stop terminates the prune goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// RateLimitMiddleware rejects requests over the limit with 429 and a
// Retry-After header, and forwards the rest to next.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(getClientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too Many Requests","message":"Rate limit exceeded. Please try again later."}`))
			return
		}
		next(w, r)
	}
}

// getClientIP resolves the client address, preferring proxy headers:
// X-Forwarded-For (first entry), then X-Real-IP, then RemoteAddr with the
// port stripped.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return extractFirstIP(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return stripPort(r.RemoteAddr)
}

// extractFirstIP returns the first entry of a comma-separated IP list. In an
// X-Forwarded-For chain that entry is the originating client.
func extractFirstIP(xff string) string {
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}

// stripPort drops the port from "host:port" style addresses, handling
// bracketed IPv6 forms. Addresses without a port pass through unchanged
// apart from bracket removal.
func stripPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]")
	}
	return host
}
