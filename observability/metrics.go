package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments recorded around each transport call. A nil
// *Metrics records nothing.
type Metrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
	errors   metric.Int64Counter
}

// NewMetrics creates the isoclient.* instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.calls, err = meter.Int64Counter("isoclient.request.total",
		metric.WithDescription("Dispatched requests by transport, operation and status")); err != nil {
		return nil, fmt.Errorf("isoclient.request.total: %w", err)
	}
	if m.duration, err = meter.Float64Histogram("isoclient.request.duration",
		metric.WithDescription("Transport call duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("isoclient.request.duration: %w", err)
	}
	if m.inFlight, err = meter.Int64UpDownCounter("isoclient.request.active",
		metric.WithDescription("Transport calls in flight")); err != nil {
		return nil, fmt.Errorf("isoclient.request.active: %w", err)
	}
	if m.errors, err = meter.Int64Counter("isoclient.error.total",
		metric.WithDescription("Failed transport calls by operation and transport")); err != nil {
		return nil, fmt.Errorf("isoclient.error.total: %w", err)
	}
	return &m, nil
}

// RecordRequestStart marks one call in flight.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.inFlight.Add(ctx, 1)
}

// RecordRequestEnd ends a call started with RecordRequestStart.
func (m *Metrics) RecordRequestEnd(ctx context.Context, transport, operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	tr := attribute.String("transport", transport)
	op := attribute.String("operation", operation)
	m.inFlight.Add(ctx, -1)
	m.calls.Add(ctx, 1, metric.WithAttributes(tr, op, attribute.String("status", status)))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(tr, op))
}

// RecordError counts a failed call.
func (m *Metrics) RecordError(ctx context.Context, operation, transport string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("transport", transport),
	))
}
