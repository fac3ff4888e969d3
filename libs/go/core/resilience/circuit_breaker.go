package resilience

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
)

// ErrCircuitOpen is returned by Guard while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit open")

// CircuitBreaker is an adaptive circuit breaker that opens based on failure rate over a rolling window
// and supports half-open trials.
type CircuitBreaker struct {
	mu sync.Mutex

	minSamples        int
	failureRateOpen   float64
	halfOpenAfter     time.Duration
	maxHalfOpenTrials int
	adaptive          bool
	minAdaptiveOpen   float64
	maxAdaptiveOpen   float64
	lastEval          time.Time
	evalInterval      time.Duration
	dynamicThreshold  float64

	openedAt       time.Time
	state          breakerState
	window         *slidingWindow
	halfOpenTrials int
	now            func() time.Time
}

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// NewCircuitBreakerAdaptive constructs a breaker using a rolling window of size with bucket resolution.
func NewCircuitBreakerAdaptive(windowSize time.Duration, buckets int, minSamples int, failureRateOpen float64, halfOpenAfter time.Duration, maxHalfOpenTrials int) *CircuitBreaker {
	if buckets <= 0 {
		buckets = 1
	}
	if maxHalfOpenTrials <= 0 {
		maxHalfOpenTrials = 1
	}
	cb := &CircuitBreaker{
		minSamples:        minSamples,
		failureRateOpen:   math.Min(math.Max(failureRateOpen, 0), 1),
		halfOpenAfter:     halfOpenAfter,
		maxHalfOpenTrials: maxHalfOpenTrials,
		state:             stateClosed,
		adaptive:          true,
		minAdaptiveOpen:   math.Min(math.Max(failureRateOpen*0.5, 0.05), failureRateOpen),
		maxAdaptiveOpen:   math.Min(0.95, math.Max(failureRateOpen*1.5, failureRateOpen)),
		evalInterval:      5 * time.Second,
		dynamicThreshold:  failureRateOpen,
		now:               time.Now,
	}
	cb.window = newSlidingWindow(windowSize, buckets, func() time.Time { return cb.now() })
	return cb
}

// SetClock replaces the time source; tests only.
func (c *CircuitBreaker) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// SetAdaptive toggles threshold adaptation.
func (c *CircuitBreaker) SetAdaptive(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adaptive = on
	c.dynamicThreshold = c.failureRateOpen
}

// State reports closed, open or half_open.
func (c *CircuitBreaker) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.String()
}

// Allow returns whether a request is permitted.
func (c *CircuitBreaker) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case stateOpen:
		if c.now().Sub(c.openedAt) < c.halfOpenAfter {
			return false
		}
		c.state = stateHalfOpen
		c.halfOpenTrials = 1
	case stateHalfOpen:
		if c.halfOpenTrials >= c.maxHalfOpenTrials {
			return false
		}
		c.halfOpenTrials++
	}
	return true
}

// RecordResult records a success or failure outcome.
func (c *CircuitBreaker) RecordResult(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window.add(success)

	now := c.now()
	if c.adaptive && now.Sub(c.lastEval) >= c.evalInterval {
		total, failures := c.window.stats()
		if total > 0 {
			// high failure rate lowers the threshold, sustained health raises it back
			fr := float64(failures) / float64(total)
			if fr > c.failureRateOpen {
				c.dynamicThreshold = math.Max(c.minAdaptiveOpen, c.dynamicThreshold*0.7)
			} else {
				c.dynamicThreshold = math.Min(c.maxAdaptiveOpen, c.dynamicThreshold*1.05)
			}
		}
		c.lastEval = now
	}

	switch c.state {
	case stateClosed:
		total, failures := c.window.stats()
		if total >= c.minSamples && total > 0 {
			threshold := c.failureRateOpen
			if c.adaptive {
				threshold = c.dynamicThreshold
			}
			if float64(failures)/float64(total) >= threshold {
				c.transitionToOpen()
			}
		}
	case stateHalfOpen:
		if !success {
			c.transitionToOpen()
		} else if c.halfOpenTrials >= c.maxHalfOpenTrials {
			c.reset()
		}
	}
}

// Guard runs fn when the breaker allows it and records the outcome.
func Guard[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	return GuardIf(cb, func(error) bool { return true }, fn)
}

// GuardIf is Guard where only errors for which isFailure reports true count
// against the breaker. Other errors are returned without touching the window.
func GuardIf[T any](cb *CircuitBreaker, isFailure func(error) bool, fn func() (T, error)) (T, error) {
	var zero T
	if !cb.Allow() {
		return zero, ErrCircuitOpen
	}
	v, err := fn()
	if err != nil && !isFailure(err) {
		cb.Release()
		return v, err
	}
	cb.RecordResult(err == nil)
	return v, err
}

// Release hands back a half-open trial slot taken by Allow when the call ended
// without an outcome worth recording.
func (c *CircuitBreaker) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateHalfOpen && c.halfOpenTrials > 0 {
		c.halfOpenTrials--
	}
}

func (c *CircuitBreaker) transitionToOpen() {
	c.state = stateOpen
	c.openedAt = c.now()
	counter, _ := otel.GetMeterProvider().Meter("infinsafe-go").Int64Counter("infinsafe_resilience_circuit_open_total")
	counter.Add(context.Background(), 1)
}

func (c *CircuitBreaker) reset() {
	c.state = stateClosed
	c.openedAt = time.Time{}
	c.halfOpenTrials = 0
	c.window.reset()
	counter, _ := otel.GetMeterProvider().Meter("infinsafe-go").Int64Counter("infinsafe_resilience_circuit_closed_total")
	counter.Add(context.Background(), 1)
}

// slidingWindow implements fixed-size time buckets storing success/failure counts.
// Each bucket remembers the interval epoch it was last written in; stale buckets count as empty.
type slidingWindow struct {
	buckets  int
	interval time.Duration
	data     []bucket
	nowFn    func() time.Time
}

type bucket struct {
	epoch         int64
	success, fail int
}

func newSlidingWindow(size time.Duration, buckets int, now func() time.Time) *slidingWindow {
	interval := size / time.Duration(buckets)
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &slidingWindow{
		buckets:  buckets,
		interval: interval,
		data:     make([]bucket, buckets),
		nowFn:    now,
	}
}

func (w *slidingWindow) epoch(now time.Time) int64 {
	return now.UnixNano() / w.interval.Nanoseconds()
}

func (w *slidingWindow) add(success bool) {
	ep := w.epoch(w.nowFn())
	b := &w.data[int(ep%int64(w.buckets))]
	if b.epoch != ep {
		*b = bucket{epoch: ep}
	}
	if success {
		b.success++
	} else {
		b.fail++
	}
}

func (w *slidingWindow) stats() (total int, failures int) {
	cur := w.epoch(w.nowFn())
	for _, b := range w.data {
		if cur-b.epoch >= int64(w.buckets) {
			continue
		}
		total += b.success + b.fail
		failures += b.fail
	}
	return
}

func (w *slidingWindow) reset() {
	for i := range w.data {
		w.data[i] = bucket{}
	}
}
