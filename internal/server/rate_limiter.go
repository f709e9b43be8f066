package server

import (
	"sync"
	"time"

	"github.com/samogera/BrightEco-Pay-sub000/internal/clock"
)

type rateLimiterEntry struct {
	windowStart time.Time
	count       int
}

// rateLimiter is a fixed-window counter keyed by caller identity.
// Entries older than one window are reset lazily on the next hit.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clock   clock.Clock
	entries map[string]*rateLimiterEntry
}

func newRateLimiter(limit int, window time.Duration, clk clock.Clock) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		clock:   clk,
		entries: make(map[string]*rateLimiterEntry),
	}
}

func (r *rateLimiter) Allow(key string) bool {
	if r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	entry, ok := r.entries[key]
	if !ok || now.Sub(entry.windowStart) >= r.window {
		r.entries[key] = &rateLimiterEntry{windowStart: now, count: 1}
		return true
	}
	if entry.count >= r.limit {
		return false
	}
	entry.count++
	return true
}
