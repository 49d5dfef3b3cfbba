// Package observability provides OpenTelemetry instrumentation for tracing and metrics.
package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics initializes the OpenTelemetry metrics provider with a Prometheus exporter.
// It returns the HTTP handler for the /metrics endpoint and a shutdown function.
// The shutdown function should be called on application exit for graceful cleanup.
func InitMetrics() (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(
		metric.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)

	return promhttp.Handler(), provider.Shutdown, nil
}

// RegisterActiveRunsGauge exposes the number of in-flight discovery runs
// as an observable gauge, sampled on every scrape.
func RegisterActiveRunsGauge(activeRuns func() int) error {
	meter := otel.Meter("discovery-gateway")

	_, err := meter.Int64ObservableGauge(
		"discovery_active_runs",
		otelmetric.WithDescription("Number of discovery runs currently in progress"),
		otelmetric.WithInt64Callback(func(_ context.Context, o otelmetric.Int64Observer) error {
			o.Observe(int64(activeRuns()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to register active runs gauge: %w", err)
	}
	return nil
}
