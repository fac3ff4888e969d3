package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock { return &fakeClock{t: time.Unix(1_700_000_000, 0)} }

func TestRateLimiterBasic(t *testing.T) {
	clk := newClock()
	rl := newRateLimiterAt(5, 5, time.Second, 10, clk.now)
	for i := 0; i < 5; i++ {
		if !rl.Allow() {
			t.Fatalf("expected allow %d", i)
		}
	}
	if rl.Allow() {
		t.Fatalf("expected deny after capacity")
	}
	if d := rl.ReserveAfter(1); d != 200*time.Millisecond {
		t.Fatalf("expected 200ms until next token, got %v", d)
	}
	clk.advance(1100 * time.Millisecond)
	if !rl.Allow() {
		t.Fatalf("expected allow after refill")
	}
}

func TestRateLimiterWindowCap(t *testing.T) {
	clk := newClock()
	rl := newRateLimiterAt(100, 100, time.Second, 3, clk.now)
	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("expected allow %d", i)
		}
	}
	if rl.Allow() {
		t.Fatalf("window cap should deny")
	}
	clk.advance(time.Second)
	if !rl.Allow() {
		t.Fatalf("new window should allow")
	}
}

func TestKeyedLimiterIsolatesKeysAndSweeps(t *testing.T) {
	clk := newClock()
	k := NewKeyedLimiter(1, 0.5, 0, 0)
	k.SetClock(clk.now)
	if !k.Allow("a") || k.Allow("a") {
		t.Fatalf("key a should get exactly one token")
	}
	if !k.Allow("b") {
		t.Fatalf("key b should be independent of a")
	}
	if d := k.RetryAfter("a"); d != 2*time.Second {
		t.Fatalf("expected 2s retry-after, got %v", d)
	}
	clk.advance(time.Minute)
	if n := k.Sweep(30 * time.Second); n != 2 {
		t.Fatalf("expected 2 swept, got %d", n)
	}
	if k.Len() != 0 {
		t.Fatalf("expected empty limiter map")
	}
}

func TestCircuitBreakerAdaptive(t *testing.T) {
	clk := newClock()
	cb := NewCircuitBreakerAdaptive(2*time.Second, 4, 4, 0.5, 500*time.Millisecond, 2)
	cb.SetClock(clk.now)
	for i := 0; i < 4; i++ {
		if !cb.Allow() {
			t.Fatalf("should allow while closed")
		}
		cb.RecordResult(false)
	}
	if cb.Allow() {
		t.Fatalf("should be open and deny")
	}
	if cb.State() != "open" {
		t.Fatalf("expected open, got %s", cb.State())
	}
	clk.advance(600 * time.Millisecond)
	if !cb.Allow() {
		t.Fatalf("half-open trial should allow")
	}
	cb.RecordResult(true)
	if !cb.Allow() {
		t.Fatalf("second trial should allow")
	}
	if cb.Allow() {
		t.Fatalf("third trial should be rejected")
	}
	cb.RecordResult(true)
	if cb.State() != "closed" {
		t.Fatalf("breaker should be closed after successful trials, got %s", cb.State())
	}
}

func TestCircuitBreakerForgetsOldFailures(t *testing.T) {
	clk := newClock()
	cb := NewCircuitBreakerAdaptive(time.Second, 4, 3, 0.5, time.Second, 1)
	cb.SetAdaptive(false)
	cb.SetClock(clk.now)
	cb.RecordResult(false)
	cb.RecordResult(false)
	clk.advance(2 * time.Second)
	cb.RecordResult(true)
	cb.RecordResult(true)
	cb.RecordResult(false)
	if cb.State() != "closed" {
		t.Fatalf("stale failures must not trip the breaker")
	}
}

func TestGuardShortCircuits(t *testing.T) {
	clk := newClock()
	cb := NewCircuitBreakerAdaptive(time.Second, 1, 1, 0.5, time.Minute, 1)
	cb.SetClock(clk.now)
	boom := errors.New("boom")
	if _, err := Guard(cb, func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	calls := 0
	_, err := Guard(cb, func() (int, error) { calls++; return 1, nil })
	if !errors.Is(err, ErrCircuitOpen) || calls != 0 {
		t.Fatalf("expected ErrCircuitOpen without calling fn, got %v calls=%d", err, calls)
	}
}

func TestGuardIfIgnoresUncountedErrors(t *testing.T) {
	clk := newClock()
	cb := NewCircuitBreakerAdaptive(time.Second, 1, 2, 0.5, time.Minute, 1)
	cb.SetClock(clk.now)
	countable := func(err error) bool { return !errors.Is(err, context.Canceled) }
	for i := 0; i < 10; i++ {
		if _, err := GuardIf(cb, countable, func() (int, error) { return 0, context.Canceled }); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected canceled, got %v", err)
		}
	}
	if cb.State() != "closed" {
		t.Fatalf("uncounted errors opened the breaker: %s", cb.State())
	}
	if v, err := GuardIf(cb, countable, func() (int, error) { return 7, nil }); err != nil || v != 7 {
		t.Fatalf("expected 7, got %d %v", v, err)
	}
}

func TestReleaseReturnsHalfOpenTrial(t *testing.T) {
	clk := newClock()
	cb := NewCircuitBreakerAdaptive(time.Second, 1, 1, 0.5, time.Second, 1)
	cb.SetClock(clk.now)
	cb.Allow()
	cb.RecordResult(false)
	clk.advance(2 * time.Second)
	canceled := func(error) bool { return false }
	if _, err := GuardIf(cb, canceled, func() (int, error) { return 0, context.Canceled }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if cb.State() != "half_open" {
		t.Fatalf("expected half_open, got %s", cb.State())
	}
	if _, err := Guard(cb, func() (int, error) { return 1, nil }); err != nil {
		t.Fatalf("released trial slot should admit the next call: %v", err)
	}
	if cb.State() != "closed" {
		t.Fatalf("expected closed after successful trial, got %s", cb.State())
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil || v != "ok" || calls != 3 {
		t.Fatalf("got v=%q err=%v calls=%d", v, err, calls)
	}
}

func TestRetryStopsOnPermanentAndContext(t *testing.T) {
	bad := errors.New("bad input")
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{Attempts: 5}, func(context.Context) (int, error) {
		calls++
		return 0, Permanent(bad)
	})
	if !errors.Is(err, bad) || calls != 1 {
		t.Fatalf("permanent error should stop at once: err=%v calls=%d", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = 0
	_, err = Retry(ctx, RetryPolicy{Attempts: 5}, func(context.Context) (int, error) {
		calls++
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) || calls != 0 {
		t.Fatalf("cancelled context should not call fn: err=%v calls=%d", err, calls)
	}
}
