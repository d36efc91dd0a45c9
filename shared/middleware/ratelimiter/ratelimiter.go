// Package ratelimiter keeps one token bucket per identity (usually a client IP).
// Buckets of identities that stay quiet for the expiration time are dropped.
package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter *rate.Limiter
	timer   *time.Timer
}

// UserRateLimiter manages rate limiting for multiple identities
type UserRateLimiter struct {
	limiters       map[string]*entry
	mu             sync.Mutex
	rate           rate.Limit
	capacity       int
	expirationTime time.Duration
}

// New creates a limiter refilling ratePerSec tokens per second up to capacity
func New(ratePerSec float64, capacity int, expirationTime time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		limiters:       make(map[string]*entry),
		rate:           rate.Limit(ratePerSec),
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

// PerMinute is a limiter allowing n requests per minute with a burst of one
// minute worth of requests.
func PerMinute(n float64) *UserRateLimiter {
	return New(n/60, max(1, int(n)), time.Hour)
}

func (url *UserRateLimiter) cleanup(identity string, e *entry) {
	url.mu.Lock()
	defer url.mu.Unlock()
	if current, ok := url.limiters[identity]; ok && current == e {
		delete(url.limiters, identity)
	}
}

// getLimiter gets or creates the bucket of an identity and pushes back its expiration
func (url *UserRateLimiter) getLimiter(identity string) *rate.Limiter {
	url.mu.Lock()
	defer url.mu.Unlock()

	e, exists := url.limiters[identity]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(url.rate, url.capacity)}
		url.limiters[identity] = e
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(url.expirationTime, func() { url.cleanup(identity, e) })

	return e.limiter
}

// Allow checks if a request should be allowed for a given identity
func (url *UserRateLimiter) Allow(identity string) bool {
	return url.getLimiter(identity).Allow()
}

// Len returns the number of tracked identities
func (url *UserRateLimiter) Len() int {
	url.mu.Lock()
	defer url.mu.Unlock()
	return len(url.limiters)
}

// Stop cleans up all timers
func (url *UserRateLimiter) Stop() {
	url.mu.Lock()
	defer url.mu.Unlock()

	for _, e := range url.limiters {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}
