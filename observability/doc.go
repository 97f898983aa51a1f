// Package observability exports isoclient traces and metrics over
// OTLP/HTTP and carries the span helpers the transport middleware uses.
//
//	cfg := observability.TracerConfig{}
//	cfg.ApplyDefaults("isoclient")
//	tp, err := observability.InitTracer(ctx, cfg)
//	defer tp.Shutdown(ctx)
//
// InjectHeaders writes the W3C trace context of the active span into a
// plain header map, which is how outgoing requests join the trace.
package observability
