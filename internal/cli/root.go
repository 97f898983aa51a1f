// Package cli implements the isoclient command line.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/isoclient/client"
	"github.com/kbukum/isoclient/config"
	"github.com/kbukum/isoclient/errors"
	"github.com/kbukum/isoclient/interceptors"
	"github.com/kbukum/isoclient/observability"
	"github.com/kbukum/isoclient/transport"
	"github.com/kbukum/isoclient/validation"
)

const serviceName = "isoclient"

// DefaultBaseURL is the public demo API.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Config is the file and environment configuration of the CLI. Flags
// override it.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Client  client.Config              `yaml:"client" mapstructure:"client"`
	Tracing observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
	// Signer enables a signed bearer token when its secret is set.
	Signer        interceptors.SignerConfig `yaml:"signer" mapstructure:"signer"`
	RedactHeaders []string                  `yaml:"redact_headers" mapstructure:"redact_headers"`
}

type options struct {
	configFile   string
	baseURL      string
	csrfToken    string
	headers      []string
	output       string
	requestID    bool
	otlpEndpoint string
	verbose      bool
	metrics      bool
}

// NewRootCommand builds the command tree. Each call returns an
// independent tree.
func NewRootCommand() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "isoclient",
		Short: "Send JSON requests through the isoclient HTTP facade",
		Long: `isoclient sends a single request through the same client facade a
program would use: the CSRF token, request and response interceptors, and
the transport selected for this runtime.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "config file (default: ./config.yml or ./isoclient.yml)")
	pf.StringVar(&o.baseURL, "base-url", DefaultBaseURL, "prefix joined verbatim with the endpoint")
	pf.StringVar(&o.csrfToken, "csrf-token", "", "send this value as X-CSRF-Token")
	pf.StringArrayVarP(&o.headers, "header", "H", nil, "request header as key=value (repeatable)")
	pf.StringVarP(&o.output, "output", "o", FormatJSON, "output format: json or yaml")
	pf.BoolVar(&o.requestID, "request-id", false, "attach a generated X-Request-ID")
	pf.StringVar(&o.otlpEndpoint, "otlp-endpoint", "", "export traces and metrics over plaintext OTLP/HTTP to host:port")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log requests and responses to stderr")
	pf.BoolVar(&o.metrics, "metrics", false, "print request counters to stderr when done")

	root.AddCommand(
		newRequestCommand(o, transport.MethodGet),
		newRequestCommand(o, transport.MethodDelete),
		newRequestCommand(o, transport.MethodPost),
		newRequestCommand(o, transport.MethodPut),
		newVersionCommand(o),
	)
	return root
}

func loadConfig(cmd *cobra.Command, o *options) (*Config, error) {
	cfg := &Config{ServiceConfig: config.ServiceConfig{Name: serviceName}}
	var lopts []config.Option
	if o.configFile != "" {
		lopts = append(lopts, config.WithConfigFile(o.configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, lopts...); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") || cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = o.baseURL
	}
	if flags.Changed("csrf-token") {
		cfg.Client.CSRFToken = o.csrfToken
	}
	if o.otlpEndpoint != "" {
		collector := observability.Exporter{Endpoint: o.otlpEndpoint, Insecure: true}
		cfg.Tracing.Exporter = collector
		cfg.Metrics.Exporter = collector
	}
	if o.verbose {
		cfg.Debug = true
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// The CLI always dispatches natively, so the base must be absolute.
	if err := validation.Var("base_url", cfg.Client.BaseURL, "url"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		k, v, ok := strings.Cut(h, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.InvalidInput("header", fmt.Sprintf("%q is not key=value", h))
		}
		headers[k] = v
	}
	return headers, nil
}
