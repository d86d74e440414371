package ratelimiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter keeps one token bucket per identity (an IP, or "global").
// Buckets idle for longer than expiration are dropped by Cleanup.
type UserRateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*entry
	rps        rate.Limit
	burst      int
	expiration time.Duration
	now        func() time.Time
}

// New returns a limiter refilling rps tokens per second up to burst.
// A non-positive rps disables limiting.
func New(rps float64, burst int, expiration time.Duration) *UserRateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &UserRateLimiter{
		limiters:   make(map[string]*entry),
		rps:        limit,
		burst:      burst,
		expiration: expiration,
		now:        time.Now,
	}
}

// Allow reports whether identity may make one more request now.
func (url *UserRateLimiter) Allow(identity string) bool {
	return url.getLimiter(identity).AllowN(url.now(), 1)
}

func (url *UserRateLimiter) getLimiter(identity string) *rate.Limiter {
	now := url.now()

	url.mu.Lock()
	defer url.mu.Unlock()

	if e, ok := url.limiters[identity]; ok {
		e.lastSeen = now
		return e.limiter
	}
	l := rate.NewLimiter(url.rps, url.burst)
	url.limiters[identity] = &entry{limiter: l, lastSeen: now}
	return l
}

func (url *UserRateLimiter) Cleanup() {
	cutoff := url.now().Add(-url.expiration)

	url.mu.Lock()
	defer url.mu.Unlock()

	for k, e := range url.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(url.limiters, k)
		}
	}
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (url *UserRateLimiter) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				url.Cleanup()
			}
		}
	}()
}

func (url *UserRateLimiter) size() int {
	url.mu.Lock()
	defer url.mu.Unlock()
	return len(url.limiters)
}
