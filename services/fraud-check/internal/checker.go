package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/otelinit"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/resilience"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/risk"
)

var (
	// ErrEmptyQuery rejects blank lookups before they reach the backend.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrLookupUnavailable wraps backend failures after retries are exhausted.
	ErrLookupUnavailable = errors.New("lookup unavailable")
)

// Checker resolves advisors and websites through a Source guarded by retry and
// a circuit breaker.
type Checker struct {
	source  risk.Source
	breaker *resilience.CircuitBreaker
	policy  resilience.RetryPolicy
	metrics *Metrics
}

func NewChecker(source risk.Source, breaker *resilience.CircuitBreaker, policy resilience.RetryPolicy, metrics *Metrics) *Checker {
	return &Checker{source: source, breaker: breaker, policy: policy, metrics: metrics}
}

type lookupResult struct {
	rec risk.Record
	ok  bool
}

// Check looks query up as given; blank queries are rejected. A miss is
// (zero, false, nil).
func (c *Checker) Check(ctx context.Context, kind risk.Kind, query string) (risk.Record, bool, error) {
	if strings.TrimSpace(query) == "" {
		return risk.Record{}, false, ErrEmptyQuery
	}
	ctx, end := otelinit.WithSpan(ctx, "fraud.lookup", attribute.String("subject.kind", string(kind)))
	defer end()

	start := time.Now()
	res, err := resilience.Retry(ctx, c.policy, func(ctx context.Context) (lookupResult, error) {
		// a caller that gave up says nothing about backend health
		backendFault := func(error) bool { return ctx.Err() == nil }
		r, err := resilience.GuardIf(c.breaker, backendFault, func() (lookupResult, error) {
			rec, ok, err := c.source.Fetch(ctx, kind, query)
			return lookupResult{rec: rec, ok: ok}, err
		})
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return r, resilience.Permanent(err)
		}
		return r, err
	})
	c.metrics.LookupLatency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attributeKind(kind)))
	if err != nil {
		c.metrics.Checks.Add(ctx, 1, metric.WithAttributes(attributeKind(kind), attribute.String("outcome", "unavailable")))
		return risk.Record{}, false, fmt.Errorf("%w: %s %q: %w", ErrLookupUnavailable, kind, query, err)
	}
	if !res.ok {
		c.metrics.Checks.Add(ctx, 1, metric.WithAttributes(attributeKind(kind), attribute.String("outcome", "not_found")))
		return risk.Record{}, false, nil
	}
	c.metrics.Checks.Add(ctx, 1, metric.WithAttributes(
		attributeKind(kind),
		attribute.String("outcome", "found"),
		attribute.String("tier", string(res.rec.Tier())),
	))
	return res.rec, true, nil
}

// BreakerState exposes the breaker for health reporting.
func (c *Checker) BreakerState() string { return c.breaker.State() }

func attributeKind(kind risk.Kind) attribute.KeyValue {
	return attribute.String("kind", string(kind))
}
