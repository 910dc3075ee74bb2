// Package monitoring registers the service's OpenTelemetry instruments.
package monitoring

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/placepoint/placepoint"

// Flow outcomes recorded on the flow counter.
const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
	OutcomeDegraded = "degraded"
)

// Metrics holds the instruments the HTTP adapter records into. The no-op
// global meter is used when OpenTelemetry is disabled, so recording is always
// safe.
type Metrics struct {
	flowTotal    metric.Int64Counter
	flowDuration metric.Float64Histogram
}

// NewMetrics creates the service instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	flowTotal, err := meter.Int64Counter(
		"placepoint.flow.invocations",
		metric.WithDescription("Flow invocations by flow and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create flow counter: %w", err)
	}

	flowDuration, err := meter.Float64Histogram(
		"placepoint.flow.duration",
		metric.WithDescription("Flow duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create flow histogram: %w", err)
	}

	return &Metrics{flowTotal: flowTotal, flowDuration: flowDuration}, nil
}

// RecordFlow records one flow invocation with its outcome and duration.
func (m *Metrics) RecordFlow(ctx context.Context, flow, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("outcome", outcome),
	)
	m.flowTotal.Add(ctx, 1, attrs)
	m.flowDuration.Record(ctx, elapsed.Seconds(), attrs)
}
