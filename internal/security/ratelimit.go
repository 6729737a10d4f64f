package security

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket bounding how fast probe tools run in
// server mode. An MCP client can call tools in a tight loop; without a
// limit that turns netdiag into a subprocess fork bomb.
type RateLimiter struct {
	tokens         int
	maxTokens      int
	refillInterval time.Duration
	mu             sync.Mutex
	lastRefill     time.Time
}

// NewRateLimiter allows maxRequests per perDuration window.
func NewRateLimiter(maxRequests int, perDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:         maxRequests,
		maxTokens:      maxRequests,
		refillInterval: perDuration / time.Duration(maxRequests),
		lastRefill:     time.Now(),
	}
}

// Wait blocks until a token is available or ctx is canceled. A client
// that abandons a tool call must not leave the handler parked on the
// bucket.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens > 0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		r.mu.Unlock()

		timer := time.NewTimer(r.refillInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill adds tokens for elapsed time. Caller must hold the lock.
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill)

	tokensToAdd := int(elapsed / r.refillInterval)
	if tokensToAdd > 0 {
		r.tokens += tokensToAdd
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = now
	}
}

// ProbeLimiter bounds subprocess-spawning tools (ping, gateway
// discovery) to 4 invocations per second.
func ProbeLimiter() *RateLimiter {
	return NewRateLimiter(4, time.Second)
}

// LookupLimiter bounds pure-socket tools (DNS, service discovery),
// which are cheaper, to 10 per second.
func LookupLimiter() *RateLimiter {
	return NewRateLimiter(10, time.Second)
}
