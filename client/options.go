package client

import (
	"github.com/kbukum/isoclient/env"
	"github.com/kbukum/isoclient/logger"
	"github.com/kbukum/isoclient/observability"
	"github.com/kbukum/isoclient/provider"
	"github.com/kbukum/isoclient/transport"
)

// Option configures a Client at construction.
type Option func(*options)

type options struct {
	server     transport.Transport
	browser    transport.Transport
	detector   env.Detector
	fetcher    transport.Fetcher
	log        *logger.Logger
	metrics    *observability.Metrics
	middleware []provider.Middleware[transport.Call, *transport.Response]
}

// WithTransports replaces the built-in transports. A nil argument keeps
// the built-in one for that environment.
func WithTransports(server, browser transport.Transport) Option {
	return func(o *options) {
		o.server = server
		o.browser = browser
	}
}

// WithDetector overrides runtime detection.
func WithDetector(d env.Detector) Option {
	return func(o *options) { o.detector = d }
}

// WithFetcher sets the fetch implementation of the built-in browser
// transport.
func WithFetcher(f transport.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records OpenTelemetry metrics around every transport call.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithMiddleware wraps both transports. The first middleware is outermost.
func WithMiddleware(mw ...provider.Middleware[transport.Call, *transport.Response]) Option {
	return func(o *options) { o.middleware = append(o.middleware, mw...) }
}
