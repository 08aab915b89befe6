package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"promptcraft-studio/internal/common/logger"
)

// Observability owns the OpenTelemetry meter provider. A zero value is
// usable and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	flowCounter   otelmetric.Int64Counter
	flowDuration  otelmetric.Float64Histogram
}

var (
	defaultOnce sync.Once
	defaultObs  *Observability
)

// New wires an OTel meter provider onto the Prometheus default registry.
func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	flowCounter, _ := meter.Int64Counter(
		"flows.processed",
		otelmetric.WithDescription("Number of flow invocations"),
	)

	flowDuration, _ := meter.Float64Histogram(
		"flows.duration",
		otelmetric.WithDescription("Flow execution duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		flowCounter:   flowCounter,
		flowDuration:  flowDuration,
	}
}

// Default returns a process-wide instance; the exporter may only register once.
func Default(serviceName string, log logger.Logger) *Observability {
	defaultOnce.Do(func() {
		defaultObs = New(serviceName, log)
	})
	return defaultObs
}

func (o *Observability) RecordFlow(ctx context.Context, flow, outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("outcome", outcome),
	)
	if o.flowCounter != nil {
		o.flowCounter.Add(ctx, 1, attrs)
	}
	if o.flowDuration != nil {
		o.flowDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
