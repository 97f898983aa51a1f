package interceptors

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbukum/isoclient/transport"
)

// Prometheus counts requests and responses passing through a client.
type Prometheus struct {
	requests  *prometheus.CounterVec
	responses *prometheus.CounterVec
}

// NewPrometheus registers <namespace>_client_requests_total and
// <namespace>_client_responses_total with reg. A nil reg uses the default
// registerer.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests that passed the request interceptors before it.",
		}, []string{"method"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "responses_total",
			Help:      "Responses received, by status class.",
		}, []string{"class"}),
	}
	for _, c := range []prometheus.Collector{p.requests, p.responses} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering client metrics: %w", err)
		}
	}
	return p, nil
}

// Requests counts by method.
func (p *Prometheus) Requests() Request {
	return func(_ context.Context, rc *transport.RequestConfig) (*transport.RequestConfig, error) {
		p.requests.WithLabelValues(rc.Method).Inc()
		return rc, nil
	}
}

// Responses counts by status class, e.g. "2xx".
func (p *Prometheus) Responses() Response {
	return func(_ context.Context, r *transport.Response) (*transport.Response, error) {
		p.responses.WithLabelValues(statusClass(r.Status)).Inc()
		return r, nil
	}
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return fmt.Sprintf("%dxx", status/100)
}
