package client

import (
	"context"

	"github.com/kbukum/isoclient/observability"
	"github.com/kbukum/isoclient/provider"
	"github.com/kbukum/isoclient/transport"
)

var spanAttributes = provider.Describer[transport.Call, *transport.Response]{
	Input: func(c transport.Call) map[string]any {
		return map[string]any{
			observability.AttrHTTPMethod: c.Method,
			observability.AttrHTTPURL:    c.URL,
		}
	},
	Output: func(r *transport.Response) map[string]any {
		return map[string]any{observability.AttrHTTPStatusCode: r.Status}
	},
}

// propagateTrace writes the active span context into the outgoing headers.
// It must sit inside WithTracing.
func propagateTrace(inner provider.RequestResponse[transport.Call, *transport.Response]) provider.RequestResponse[transport.Call, *transport.Response] {
	return &traceHeaders{inner}
}

type traceHeaders struct {
	provider.RequestResponse[transport.Call, *transport.Response]
}

func (t *traceHeaders) Execute(ctx context.Context, call transport.Call) (*transport.Response, error) {
	if call.Config != nil {
		if call.Config.Headers == nil {
			call.Config.Headers = make(map[string]string)
		}
		observability.InjectHeaders(ctx, call.Config.Headers)
	}
	return t.RequestResponse.Execute(ctx, call)
}
