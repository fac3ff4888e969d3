package otelinit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/resilience"
)

func TestInitMetricsServesPrometheus(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	ctx := context.Background()
	shutdown, handler := InitMetrics(ctx, "test-service")
	defer func() { _ = shutdown(ctx) }()

	if _, err := resilience.Retry(ctx, resilience.RetryPolicy{Attempts: 1}, func(context.Context) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if handler == nil {
		t.Fatal("expected prometheus handler")
	}

	srv := httptest.NewServer(handler)
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "infinsafe_resilience_retry_attempts") {
		t.Fatalf("expected retry counter in scrape output, got:\n%s", body)
	}
}

func TestInitTracerDisabled(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	shutdown := InitTracer(context.Background(), "test-service")
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown returned %v", err)
	}
	ctx, end := WithSpan(context.Background(), "noop")
	defer end()
	if ctx == nil || otel.GetTextMapPropagator() == nil {
		t.Fatal("expected usable context and propagator")
	}
}
