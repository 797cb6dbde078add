// Package ratelimiter implements fixed-window per-IP rate limiting for the
// report endpoints, so a misbehaving poller cannot force cache-miss storms.
package ratelimiter

import (
	"sync"
	"time"
)

type window struct {
	count     int
	resetTime time.Time
}

// RateLimiter tracks request counts per client IP in memory.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
}

// New creates a RateLimiter allowing limit requests per period per IP.
func New(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
}

// Allow reports whether ip may make another request, and the time at which
// its current window resets.
func (rl *RateLimiter) Allow(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	w, exists := rl.windows[ip]
	if !exists || now.After(w.resetTime) {
		rl.windows[ip] = &window{count: 1, resetTime: now.Add(rl.period)}
		return true, now.Add(rl.period)
	}

	if w.count >= rl.limit {
		return false, w.resetTime
	}

	w.count++
	return true, w.resetTime
}

// Cleanup removes expired windows to prevent unbounded growth.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, w := range rl.windows {
		if now.After(w.resetTime) {
			delete(rl.windows, ip)
		}
	}
}
