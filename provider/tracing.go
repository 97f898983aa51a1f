package provider

import (
	"context"

	"github.com/kbukum/isoclient/observability"
)

// WithTracing runs each Execute call in a span named
// "{serviceName}.{providerName}". Fields from d become span attributes.
func WithTracing[I, O any](serviceName string, d Describer[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{decorated: decorated[I, O]{inner}, serviceName: serviceName, describe: d}
	}
}

type tracingRR[I, O any] struct {
	decorated[I, O]
	serviceName string
	describe    Describer[I, O]
}

func (t *tracingRR[I, O]) Execute(ctx context.Context, in I) (O, error) {
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+t.Name())
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrServiceName, t.serviceName)
	observability.SetSpanAttribute(ctx, observability.AttrTransport, t.Name())
	setAttributes(ctx, t.describe.input(in))

	out, err := t.RequestResponse.Execute(ctx, in)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return out, err
	}
	setAttributes(ctx, t.describe.output(out))
	return out, nil
}

func setAttributes(ctx context.Context, attrs map[string]any) {
	for k, v := range attrs {
		observability.SetSpanAttribute(ctx, k, v)
	}
}
