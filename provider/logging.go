package provider

import (
	"context"
	"maps"
	"time"

	"github.com/kbukum/isoclient/logger"
)

// WithLogging logs each Execute call at debug level, or error level when it
// fails. The error is returned unchanged.
func WithLogging[I, O any](log *logger.Logger, d Describer[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{decorated: decorated[I, O]{inner}, log: log, describe: d}
	}
}

type loggingRR[I, O any] struct {
	decorated[I, O]
	log      *logger.Logger
	describe Describer[I, O]
}

func (l *loggingRR[I, O]) Execute(ctx context.Context, in I) (O, error) {
	start := time.Now()
	out, err := l.RequestResponse.Execute(ctx, in)

	fields := logger.DurationFields("execute", time.Since(start))
	fields[logger.FieldTransport] = l.Name()
	maps.Copy(fields, l.describe.input(in))
	if err != nil {
		fields[logger.FieldError] = err.Error()
		l.log.Error("Dispatch failed", fields)
		return out, err
	}
	maps.Copy(fields, l.describe.output(out))
	l.log.Debug("Dispatched", fields)
	return out, nil
}
