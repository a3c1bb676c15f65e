package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
)

const (
	// ServiceName identifies this service in exported telemetry.
	ServiceName = "auditlens"
	// MeterName scopes the instruments registered below.
	MeterName = "auditlens"
)

// Metrics holds the service's counters. A nil *Metrics is valid and records
// nothing, which keeps tests and the offline CLI free of telemetry setup.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler

	analysesComputed metric.Int64Counter
	anomaliesFlagged metric.Int64Counter
	agentRequests    metric.Int64Counter
	agentTokens      metric.Int64Counter
}

// InitializeMetrics sets up the OTel meter provider with a Prometheus
// exporter and registers the service counters.
func InitializeMetrics(version string, logger *slog.Logger) (*Metrics, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	meter := provider.Meter(MeterName)

	m := &Metrics{
		provider: provider,
		handler:  promhttp.Handler(),
	}

	if m.analysesComputed, err = meter.Int64Counter("auditlens_analyses_computed_total",
		metric.WithDescription("Deterministic document analyses computed")); err != nil {
		return nil, err
	}
	if m.anomaliesFlagged, err = meter.Int64Counter("auditlens_anomalies_flagged_total",
		metric.WithDescription("Anomaly notes emitted by the detector")); err != nil {
		return nil, err
	}
	if m.agentRequests, err = meter.Int64Counter("auditlens_agent_requests_total",
		metric.WithDescription("Agent runs, labeled by outcome")); err != nil {
		return nil, err
	}
	if m.agentTokens, err = meter.Int64Counter("auditlens_agent_tokens_total",
		metric.WithDescription("LLM tokens consumed, labeled by kind")); err != nil {
		return nil, err
	}

	logger.Info("metrics initialized", slog.String("exporter", "prometheus"))
	return m, nil
}

// Handler returns the Prometheus scrape handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

// Shutdown flushes the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}

// RecordAnalysis counts one deterministic analysis run and the anomaly
// notes it produced.
func (m *Metrics) RecordAnalysis(ctx context.Context, anomalyNotes int) {
	if m == nil {
		return
	}
	m.analysesComputed.Add(ctx, 1)
	if anomalyNotes > 0 {
		m.anomaliesFlagged.Add(ctx, int64(anomalyNotes))
	}
}

// RecordAgentRun counts one agent round trip and its token usage.
func (m *Metrics) RecordAgentRun(ctx context.Context, accepted bool, promptTokens, completionTokens int64) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	m.agentRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.agentTokens.Add(ctx, promptTokens, metric.WithAttributes(attribute.String("kind", "prompt")))
	m.agentTokens.Add(ctx, completionTokens, metric.WithAttributes(attribute.String("kind", "completion")))
}
