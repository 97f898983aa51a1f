package client

import (
	"github.com/kbukum/isoclient/security"
	"github.com/kbukum/isoclient/validation"
)

const defaultServiceName = "isoclient"

// Config configures a Client.
type Config struct {
	// BaseURL is prepended verbatim to every endpoint. It may be absolute,
	// relative ("/api") or empty; fetch resolves relative URLs against the page.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" json:"base_url" validate:"nocontrol"`

	// CSRFToken is sent as X-CSRF-Token when non-empty.
	CSRFToken string `yaml:"csrf_token" mapstructure:"csrf_token" json:"-"`

	// TLS configures the secure client of the server transport.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls" json:"tls,omitempty"`

	// OmitContentType disables the default "Content-Type: application/json"
	// on requests with a body.
	OmitContentType bool `yaml:"omit_content_type" mapstructure:"omit_content_type" json:"omit_content_type"`

	// Tracing wraps transports in OpenTelemetry spans and propagates the
	// trace context in request headers.
	Tracing bool `yaml:"tracing" mapstructure:"tracing" json:"tracing"`

	// ServiceName names spans and log lines. Defaults to "isoclient".
	ServiceName string `yaml:"service_name" mapstructure:"service_name" json:"service_name"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
}

// Validate checks the configuration, including nested TLS settings.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
