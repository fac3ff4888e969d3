package resilience

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
)

// RateLimiter implements a token bucket with a secondary fixed window cap for bursts.
// Refill occurs lazily on each Allow check based on elapsed time.
type RateLimiter struct {
	mu           sync.Mutex
	capacity     int64
	fillRate     float64 // tokens per second
	available    float64
	lastRefill   time.Time
	windowStart  time.Time
	windowDur    time.Duration
	windowCount  int64
	maxPerWindow int64 // 0 disables the window cap
	lastSeen     time.Time
	now          func() time.Time
}

// NewRateLimiter creates a combined token bucket + window limiter.
func NewRateLimiter(capacity int64, fillRate float64, windowDur time.Duration, maxPerWindow int64) *RateLimiter {
	return newRateLimiterAt(capacity, fillRate, windowDur, maxPerWindow, time.Now)
}

func newRateLimiterAt(capacity int64, fillRate float64, windowDur time.Duration, maxPerWindow int64, now func() time.Time) *RateLimiter {
	t := now()
	return &RateLimiter{
		capacity:     capacity,
		fillRate:     fillRate,
		available:    float64(capacity),
		lastRefill:   t,
		windowStart:  t,
		windowDur:    windowDur,
		maxPerWindow: maxPerWindow,
		lastSeen:     t,
		now:          now,
	}
}

// Allow returns whether one token can be consumed now.
func (r *RateLimiter) Allow() bool {
	return r.AllowN(1)
}

// AllowN attempts to consume n tokens.
func (r *RateLimiter) AllowN(n int64) bool {
	if n <= 0 {
		return true
	}
	meter := otel.GetMeterProvider().Meter("infinsafe-go")

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.lastSeen = now
	r.refill(now)

	if r.windowDur > 0 && now.Sub(r.windowStart) >= r.windowDur {
		r.windowStart = now
		r.windowCount = 0
	}

	if r.maxPerWindow > 0 && r.windowCount+n > r.maxPerWindow {
		counter, _ := meter.Int64Counter("infinsafe_ratelimiter_window_drops_total")
		counter.Add(context.Background(), 1)
		return false
	}

	if float64(n) <= r.available {
		r.available -= float64(n)
		r.windowCount += n
		return true
	}
	counter, _ := meter.Int64Counter("infinsafe_ratelimiter_token_drops_total")
	counter.Add(context.Background(), 1)
	return false
}

// ReserveAfter returns the duration after which n tokens will be available.
func (r *RateLimiter) ReserveAfter(n int64) time.Duration {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill(r.now())

	need := float64(n)
	if r.available >= need {
		return 0
	}
	if r.fillRate <= 0 {
		return r.windowDur
	}
	shortfall := need - r.available
	return time.Duration(shortfall / r.fillRate * float64(time.Second))
}

func (r *RateLimiter) refill(now time.Time) {
	elapsed := now.Sub(r.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	r.available = minFloat(float64(r.capacity), r.available+elapsed*r.fillRate)
	r.lastRefill = now
}

func (r *RateLimiter) idleSince(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return now.Sub(r.lastSeen)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// KeyedLimiter keeps one RateLimiter per client key.
type KeyedLimiter struct {
	mu           sync.Mutex
	limiters     map[string]*RateLimiter
	capacity     int64
	fillRate     float64
	windowDur    time.Duration
	maxPerWindow int64
	now          func() time.Time
}

// NewKeyedLimiter returns a limiter that lazily creates per-key buckets with the given shape.
func NewKeyedLimiter(capacity int64, fillRate float64, windowDur time.Duration, maxPerWindow int64) *KeyedLimiter {
	return &KeyedLimiter{
		limiters:     make(map[string]*RateLimiter),
		capacity:     capacity,
		fillRate:     fillRate,
		windowDur:    windowDur,
		maxPerWindow: maxPerWindow,
		now:          time.Now,
	}
}

// SetClock replaces the time source for limiters created afterwards; tests only.
func (k *KeyedLimiter) SetClock(now func() time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.now = now
}

func (k *KeyedLimiter) get(key string) *RateLimiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	rl, ok := k.limiters[key]
	if !ok {
		rl = newRateLimiterAt(k.capacity, k.fillRate, k.windowDur, k.maxPerWindow, k.now)
		k.limiters[key] = rl
	}
	return rl
}

// Allow consumes one token from key's bucket.
func (k *KeyedLimiter) Allow(key string) bool { return k.get(key).Allow() }

// RetryAfter reports how long key must wait for the next token.
func (k *KeyedLimiter) RetryAfter(key string) time.Duration { return k.get(key).ReserveAfter(1) }

// Len reports the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

// Sweep drops buckets untouched for longer than idle and returns how many were removed.
func (k *KeyedLimiter) Sweep(idle time.Duration) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := k.now()
	removed := 0
	for key, rl := range k.limiters {
		if rl.idleSince(now) > idle {
			delete(k.limiters, key)
			removed++
		}
	}
	return removed
}
