package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbukum/isoclient/observability"
)

// shutdownTimeout bounds the final export on exit.
const shutdownTimeout = 5 * time.Second

type telemetry struct {
	metrics  *observability.Metrics
	shutdown []func(context.Context) error
}

// setupTelemetry starts OTLP trace and metric export when a tracing
// endpoint is configured. Metrics go to the tracing collector unless they
// name their own.
func setupTelemetry(ctx context.Context, cfg *Config) (*telemetry, error) {
	t := &telemetry{}
	if cfg.Tracing.Endpoint == "" {
		return t, nil
	}

	tc := cfg.Tracing
	tc.ServiceVersion = cfg.Version
	tc.Environment = cfg.Environment
	tc.ApplyDefaults(cfg.Name)
	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return nil, err
	}
	t.shutdown = append(t.shutdown, tp.Shutdown)

	mc := cfg.Metrics
	if mc.Endpoint == "" {
		mc.Exporter = tc.Exporter
	}
	mc.ServiceVersion = cfg.Version
	mc.Environment = cfg.Environment
	mc.ApplyDefaults(cfg.Name)
	mp, err := observability.InitMeter(ctx, mc)
	if err != nil {
		_ = t.close()
		return nil, err
	}
	t.shutdown = append(t.shutdown, mp.Shutdown)

	if t.metrics, err = observability.NewMetrics(observability.Meter(cfg.Name)); err != nil {
		_ = t.close()
		return nil, fmt.Errorf("creating client metrics: %w", err)
	}
	cfg.Client.Tracing = true
	return t, nil
}

func (t *telemetry) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	var errs []error
	for i := len(t.shutdown) - 1; i >= 0; i-- {
		errs = append(errs, t.shutdown[i](ctx))
	}
	return stderrors.Join(errs...)
}

// printCounters writes every counter in reg as "name{labels} value".
func printCounters(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
