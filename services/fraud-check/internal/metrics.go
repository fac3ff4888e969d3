package internal

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics are the fraud-check instruments.
type Metrics struct {
	Checks         metric.Int64Counter
	LookupLatency  metric.Float64Histogram
	Points         metric.Int64Counter
	Unlocks        metric.Int64Counter
	Scans          metric.Int64Counter
	ScanMatches    metric.Int64Counter
	RateLimited    metric.Int64Counter
	SessionsPurged metric.Int64Counter
	SeedReloads    metric.Int64Counter
	NotifyFailures metric.Int64Counter
}

func NewMetrics() *Metrics {
	meter := otel.Meter("infinsafe-go")
	m := &Metrics{}
	m.Checks, _ = meter.Int64Counter("infinsafe_checks_total")
	m.LookupLatency, _ = meter.Float64Histogram("infinsafe_lookup_duration_seconds")
	m.Points, _ = meter.Int64Counter("infinsafe_points_awarded_total")
	m.Unlocks, _ = meter.Int64Counter("infinsafe_badges_unlocked_total")
	m.Scans, _ = meter.Int64Counter("infinsafe_scans_total")
	m.ScanMatches, _ = meter.Int64Counter("infinsafe_scan_matches_total")
	m.RateLimited, _ = meter.Int64Counter("infinsafe_http_rate_limited_total")
	m.SessionsPurged, _ = meter.Int64Counter("infinsafe_sessions_purged_total")
	m.SeedReloads, _ = meter.Int64Counter("infinsafe_seed_reloads_total")
	m.NotifyFailures, _ = meter.Int64Counter("infinsafe_notify_failures_total")
	return m
}

func attributeSubject(subject string) attribute.KeyValue {
	return attribute.String("subject", subject)
}
