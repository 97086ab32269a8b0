package middleware

import (
	"net/http"
	"sync"
	"time"
)

// caller tracks request counts for one remote address within the
// current window.
type caller struct {
	count    int
	lastSeen time.Time
}

// RateLimiter is a fixed-window per-IP limiter. It guards the
// anonymous shared-quiz routes, the only surface reachable without a
// token.
type RateLimiter struct {
	mu      sync.Mutex
	callers map[string]*caller
	limit   int
	window  time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string]*caller),
		limit:   limit,
		window:  window,
	}

	// Sweep idle entries so one-off visitors don't accumulate.
	go func() {
		for {
			time.Sleep(window)
			rl.mu.Lock()
			for ip, c := range rl.callers {
				if time.Since(c.lastSeen) > window {
					delete(rl.callers, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr

		rl.mu.Lock()
		c, exists := rl.callers[ip]
		if !exists || time.Since(c.lastSeen) > rl.window {
			rl.callers[ip] = &caller{count: 1, lastSeen: time.Now()}
			rl.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		c.count++
		c.lastSeen = time.Now()
		count := c.count
		rl.mu.Unlock()

		if count > rl.limit {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
