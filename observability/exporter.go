package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/kbukum/isoclient/validation"
)

// DefaultEndpoint is a collector listening for OTLP/HTTP on this host.
const DefaultEndpoint = "localhost:4318"

// Exporter is the OTLP/HTTP destination and resource identity shared by
// trace and metric export.
type Exporter struct {
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is host:port without a scheme.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	// Insecure sends plaintext HTTP. It is forced on when Endpoint is unset.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
}

func (e *Exporter) applyDefaults(serviceName string) {
	if e.ServiceName == "" {
		e.ServiceName = serviceName
	}
	if e.ServiceVersion == "" {
		e.ServiceVersion = "dev"
	}
	if e.Environment == "" {
		e.Environment = "development"
	}
	if e.Endpoint == "" {
		e.Endpoint = DefaultEndpoint
		e.Insecure = true
	}
}

func (e *Exporter) validate() error {
	return validation.Validate(e)
}

func (e *Exporter) resource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(e.ServiceName),
			semconv.ServiceVersion(e.ServiceVersion),
			attribute.String("environment", e.Environment),
		),
	)
}
