// Package infra provides shared infrastructure components: rate limiting
// for the report-generation endpoints.
package infra

import (
	"sync"
	"time"
)

// RateLimiter is a token-bucket limiter guarding the expensive
// report-generation path. Tokens refill at a fixed interval up to burst.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	burst      int
	refillRate time.Duration
	lastRefill time.Time
}

// NewRateLimiter creates a limiter allowing burst requests per refillRate.
func NewRateLimiter(burst int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     burst,
		burst:      burst,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow reports whether a request may proceed now, consuming a token if so.
// Callers translate a false result into HTTP 429.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// refill adds tokens based on elapsed time. Must be called with mu held.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	if elapsed >= rl.refillRate {
		periods := int(elapsed / rl.refillRate)
		rl.tokens += periods * rl.burst
		if rl.tokens > rl.burst {
			rl.tokens = rl.burst
		}
		rl.lastRefill = rl.lastRefill.Add(time.Duration(periods) * rl.refillRate)
	}
}
