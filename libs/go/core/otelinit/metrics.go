package otelinit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics installs a global meter provider. A Prometheus reader is always
// registered (pull, served by the returned handler); an OTLP push reader is
// added when OTEL_EXPORTER_OTLP_METRICS_ENDPOINT or OTEL_EXPORTER_OTLP_ENDPOINT
// is set. Instruments are created by their owners on the global provider.
func InitMetrics(ctx context.Context, service string) (shutdown func(context.Context) error, promHandler http.Handler) {
	opts := []sdkmetric.Option{sdkmetric.WithResource(serviceResource(service))}

	reg := prometheus.NewRegistry()
	if exp, err := promexporter.New(promexporter.WithRegisterer(reg)); err != nil {
		slog.Warn("prometheus exporter init failed", "error", err)
	} else {
		opts = append(opts, sdkmetric.WithReader(exp))
		promHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	if endpoint := pushEndpoint(); endpoint != "" {
		ctxInit, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		exp, err := otlpmetricgrpc.New(ctxInit,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			slog.Warn("metrics exporter init failed", "error", err)
		} else {
			opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(10*time.Second))))
			slog.Info("otlp metrics enabled", "endpoint", endpoint)
		}
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	return func(ctx context.Context) error {
		err := mp.Shutdown(ctx)
		if errors.Is(err, sdkmetric.ErrReaderShutdown) {
			return nil
		}
		return err
	}, promHandler
}

func pushEndpoint() string {
	if v := os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); v != "" {
		return v
	}
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
}
