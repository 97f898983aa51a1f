package client

import (
	"context"
	"fmt"

	"github.com/kbukum/isoclient/component"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component manages a Client's lifecycle. The client is built in Start.
type Component struct {
	config Config
	opts   []Option
	client *Client
}

// NewComponent returns a component that builds a Client from cfg on Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the configured service name.
func (c *Component) Name() string {
	if c.config.ServiceName == "" {
		return defaultServiceName
	}
	return c.config.ServiceName
}

// Start builds the client.
func (c *Component) Start(_ context.Context) error {
	cl, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.client = cl
	return nil
}

// Stop closes the client's transports.
func (c *Component) Stop(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Close(ctx)
}

// Health is healthy when the transport for this runtime is available.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusUnhealthy}
	if c.client == nil {
		h.Message = "not started"
		return h
	}
	t, err := c.client.Transport(ctx)
	if err != nil {
		h.Message = err.Error()
		return h
	}
	if !t.IsAvailable(ctx) {
		h.Message = fmt.Sprintf("%s transport unavailable", t.Name())
		return h
	}
	h.Status = component.StatusHealthy
	return h
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: c.config.BaseURL,
	}
}

// Client returns the client built by Start, or nil before Start.
func (c *Component) Client() *Client {
	return c.client
}
