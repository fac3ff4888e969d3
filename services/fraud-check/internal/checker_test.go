package internal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/resilience"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/risk"
)

type flakySource struct {
	mu       sync.Mutex
	failures int
	calls    int
	inner    risk.Source
}

func (f *flakySource) Fetch(ctx context.Context, kind risk.Kind, id string) (risk.Record, bool, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	if fail {
		return risk.Record{}, false, errBackend
	}
	return f.inner.Fetch(ctx, kind, id)
}

func newTestChecker(src risk.Source, attempts int, breaker *resilience.CircuitBreaker) *Checker {
	if breaker == nil {
		breaker = resilience.NewCircuitBreakerAdaptive(time.Minute, 1, 100, 0.5, time.Hour, 1)
	}
	return NewChecker(src, breaker, resilience.RetryPolicy{Attempts: attempts, BaseDelay: time.Millisecond}, NewMetrics())
}

func TestCheckerRetriesTransientFailures(t *testing.T) {
	src := &flakySource{failures: 2, inner: &risk.DelayedSource{Tables: risk.NewHolder(risk.DefaultTable())}}
	c := newTestChecker(src, 3, nil)
	rec, ok, err := c.Check(context.Background(), risk.KindAdvisor, "Sarah Johnson")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, risk.TierMedium, rec.Tier())
	assert.Equal(t, 3, src.calls)
}

func TestCheckerEmptyQuerySkipsBackend(t *testing.T) {
	src := &failingSource{}
	c := newTestChecker(src, 3, nil)
	_, _, err := c.Check(context.Background(), risk.KindWebsite, " \t ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, 0, src.calls)
}

func TestCheckerCircuitOpens(t *testing.T) {
	src := &failingSource{err: errBackend}
	breaker := resilience.NewCircuitBreakerAdaptive(time.Minute, 1, 2, 0.5, time.Hour, 1)
	c := newTestChecker(src, 1, breaker)
	for i := 0; i < 2; i++ {
		_, _, err := c.Check(context.Background(), risk.KindAdvisor, "John Doe")
		require.ErrorIs(t, err, ErrLookupUnavailable)
		require.ErrorIs(t, err, errBackend)
	}
	assert.Equal(t, "open", c.BreakerState())

	_, _, err := c.Check(context.Background(), risk.KindAdvisor, "John Doe")
	assert.ErrorIs(t, err, ErrLookupUnavailable)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2, src.calls)
}

func TestCheckerNotFoundDoesNotTripBreaker(t *testing.T) {
	breaker := resilience.NewCircuitBreakerAdaptive(time.Minute, 1, 1, 0.5, time.Hour, 1)
	c := newTestChecker(&risk.DelayedSource{Tables: risk.NewHolder(risk.DefaultTable())}, 1, breaker)
	for i := 0; i < 5; i++ {
		_, ok, err := c.Check(context.Background(), risk.KindAdvisor, "Nobody")
		require.NoError(t, err)
		require.False(t, ok)
	}
	assert.Equal(t, "closed", c.BreakerState())
}

func TestCheckerHonorsCancellation(t *testing.T) {
	src := &risk.DelayedSource{Tables: risk.NewHolder(risk.DefaultTable()), Delay: time.Hour}
	c := newTestChecker(src, 3, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := c.Check(ctx, risk.KindAdvisor, "John Doe")
	assert.ErrorIs(t, err, ErrLookupUnavailable)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCheckerCancellationsDoNotTripBreaker(t *testing.T) {
	tables := risk.NewHolder(risk.DefaultTable())
	src := &risk.DelayedSource{Tables: tables, Delay: time.Hour}
	breaker := resilience.NewCircuitBreakerAdaptive(10*time.Second, 1, 10, 0.5, time.Hour, 1)
	c := newTestChecker(src, 1, breaker)
	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		_, _, err := c.Check(ctx, risk.KindAdvisor, "John Doe")
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, "closed", c.BreakerState())

	src.Delay = 0
	rec, ok, err := c.Check(context.Background(), risk.KindAdvisor, "John Doe")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 25, rec.Score)
}

func TestCheckerMatchesAdvisorExactly(t *testing.T) {
	c := newTestChecker(&risk.DelayedSource{Tables: risk.NewHolder(risk.DefaultTable())}, 1, nil)
	_, ok, err := c.Check(context.Background(), risk.KindAdvisor, " John Doe")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Check(context.Background(), risk.KindAdvisor, "John Doe")
	require.NoError(t, err)
	assert.True(t, ok)
}
