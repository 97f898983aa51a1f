package component

import "context"

// HealthStatus is the coarse state reported by Health.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is a point-in-time report. Message explains an unhealthy status.
type Health struct {
	Name    string       `json:"name" yaml:"name"`
	Status  HealthStatus `json:"status" yaml:"status"`
	Message string       `json:"message,omitempty" yaml:"message,omitempty"`
}

// Component is started and stopped by a Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a Registry logs once a component has started.
type Description struct {
	Name    string // defaults to Component.Name
	Type    string // "http-client", "http-server"
	Details string
	Port    int
}

// Describable components add a Description to the start log.
type Describable interface {
	Describe() Description
}

// Route is one HTTP route served by a component.
type Route struct {
	Method  string `json:"method" yaml:"method"`
	Path    string `json:"path" yaml:"path"`
	Handler string `json:"handler" yaml:"handler"`
}

// RouteProvider components add their route count to the start log.
type RouteProvider interface {
	Routes() []Route
}
