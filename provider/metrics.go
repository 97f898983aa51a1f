package provider

import (
	"context"
	"time"

	"github.com/kbukum/isoclient/observability"
)

// WithMetrics records in-flight, count, duration and error instruments for
// each Execute call. operation labels the call; nil labels every call
// "execute".
func WithMetrics[I, O any](metrics *observability.Metrics, operation func(I) string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{decorated: decorated[I, O]{inner}, metrics: metrics, operation: operation}
	}
}

type metricsRR[I, O any] struct {
	decorated[I, O]
	metrics   *observability.Metrics
	operation func(I) string
}

func (m *metricsRR[I, O]) Execute(ctx context.Context, in I) (O, error) {
	op := "execute"
	if m.operation != nil {
		op = m.operation(in)
	}

	m.metrics.RecordRequestStart(ctx)
	start := time.Now()
	out, err := m.RequestResponse.Execute(ctx, in)

	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.RecordError(ctx, op, m.Name())
	}
	m.metrics.RecordRequestEnd(ctx, m.Name(), op, status, time.Since(start))
	return out, err
}
