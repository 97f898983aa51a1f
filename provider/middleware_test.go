package provider_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kbukum/isoclient/logger"
	"github.com/kbukum/isoclient/observability"
	"github.com/kbukum/isoclient/provider"
)

type echoProvider struct {
	name string
	err  error
}

func (p *echoProvider) Name() string                       { return p.name }
func (p *echoProvider) IsAvailable(_ context.Context) bool { return p.err == nil }
func (p *echoProvider) Execute(_ context.Context, in string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "echo:" + in, nil
}

type orderTracker struct {
	inner provider.RequestResponse[string, string]
	tag   string
	order *[]string
}

func (o *orderTracker) Name() string                         { return o.inner.Name() }
func (o *orderTracker) IsAvailable(ctx context.Context) bool { return o.inner.IsAvailable(ctx) }
func (o *orderTracker) Execute(ctx context.Context, in string) (string, error) {
	*o.order = append(*o.order, o.tag+">")
	out, err := o.inner.Execute(ctx, in)
	*o.order = append(*o.order, "<"+o.tag)
	return out, err
}

var describe = provider.Describer[string, string]{
	Input:  func(in string) map[string]any { return map[string]any{"input": in} },
	Output: func(out string) map[string]any { return map[string]any{"output": out} },
}

func bufferLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := &logger.Config{Level: "debug", Format: "json"}
	return logger.NewWithWriter(cfg, "test", buf), buf
}

func TestChainEmpty(t *testing.T) {
	wrapped := provider.Chain[string, string]()(&echoProvider{name: "server"})
	if wrapped.Name() != "server" {
		t.Fatalf("expected 'server', got %q", wrapped.Name())
	}
	out, err := wrapped.Execute(context.Background(), "hi")
	if err != nil || out != "echo:hi" {
		t.Fatalf("expected echo:hi, got %q, err %v", out, err)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return &orderTracker{inner: inner, tag: tag, order: &order}
		}
	}

	wrapped := provider.Chain(mw("A"), nil, mw("B"))(&echoProvider{name: "server"})
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	want := []string{"A>", "B>", "<B", "<A"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestWithLoggingSuccess(t *testing.T) {
	log, buf := bufferLogger()
	wrapped := provider.WithLogging(log, describe)(&echoProvider{name: "server"})

	out, err := wrapped.Execute(context.Background(), "hi")
	if err != nil || out != "echo:hi" {
		t.Fatalf("expected echo:hi, got %q, err %v", out, err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q", buf.String())
	}
	if entry["level"] != "debug" {
		t.Errorf("expected debug level, got %v", entry["level"])
	}
	if entry[logger.FieldTransport] != "server" {
		t.Errorf("expected transport=server, got %v", entry[logger.FieldTransport])
	}
	if entry["input"] != "hi" || entry["output"] != "echo:hi" {
		t.Errorf("expected described fields, got %v", entry)
	}
}

func TestWithLoggingPassesErrorThrough(t *testing.T) {
	errDial := errors.New("dial tcp: connection refused")
	log, buf := bufferLogger()
	wrapped := provider.WithLogging(log, describe)(&echoProvider{name: "server", err: errDial})

	_, err := wrapped.Execute(context.Background(), "hi")
	if err != errDial {
		t.Fatalf("expected the same error value, got %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q", buf.String())
	}
	if entry["level"] != "error" {
		t.Errorf("expected error level, got %v", entry["level"])
	}
	if _, ok := entry["output"]; ok {
		t.Error("a failed call has no output fields")
	}
}

func TestWithTracingPassesErrorThrough(t *testing.T) {
	errDial := errors.New("refused")
	wrapped := provider.WithTracing("isoclient", describe)(&echoProvider{name: "browser", err: errDial})

	if wrapped.Name() != "browser" {
		t.Errorf("expected name delegation, got %q", wrapped.Name())
	}
	if wrapped.IsAvailable(context.Background()) {
		t.Error("expected availability delegation")
	}
	if _, err := wrapped.Execute(context.Background(), "x"); err != errDial {
		t.Errorf("expected the same error value, got %v", err)
	}
}

func TestWithMetrics(t *testing.T) {
	metrics, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ok := provider.WithMetrics[string, string](metrics, nil)(&echoProvider{name: "server"})
	if out, err := ok.Execute(context.Background(), "a"); err != nil || out != "echo:a" {
		t.Fatalf("expected echo:a, got %q, err %v", out, err)
	}

	errDial := errors.New("refused")
	bad := provider.WithMetrics[string, string](metrics, nil)(&echoProvider{name: "server", err: errDial})
	if _, err := bad.Execute(context.Background(), "a"); err != errDial {
		t.Fatalf("expected the same error value, got %v", err)
	}
}

func TestChainAllMiddlewares(t *testing.T) {
	log, _ := bufferLogger()
	metrics, _ := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))

	wrapped := provider.Chain(
		provider.WithLogging(log, describe),
		provider.WithMetrics[string, string](metrics, nil),
		provider.WithTracing("isoclient", describe),
	)(&echoProvider{name: "server"})

	out, err := wrapped.Execute(context.Background(), "z")
	if err != nil || out != "echo:z" {
		t.Fatalf("expected echo:z, got %q, err %v", out, err)
	}
}
