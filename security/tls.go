package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/kbukum/isoclient/errors"
	"github.com/kbukum/isoclient/validation"
)

// TLS versions accepted in MinVersion.
const (
	TLS12 = "1.2"
	TLS13 = "1.3"
)

// TLSConfig holds the client-side TLS settings for https requests.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify" json:"skip_verify"`

	// CAFile is a PEM bundle of trusted roots. When both CAFile and CAPEM
	// are empty the system pool is used.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file" json:"ca_file"`

	// CAPEM is an inline PEM bundle, appended after CAFile.
	CAPEM string `yaml:"ca_pem" mapstructure:"ca_pem" json:"ca_pem"`

	// CertFile and KeyFile enable mutual TLS.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file" json:"cert_file" validate:"required_with=KeyFile"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file" json:"key_file" validate:"required_with=CertFile"`

	ServerName string `yaml:"server_name" mapstructure:"server_name" json:"server_name"`

	// MinVersion is "1.2" or "1.3". Defaults to "1.2".
	MinVersion string `yaml:"min_version" mapstructure:"min_version" json:"min_version" validate:"omitempty,oneof=1.2 1.3"`
}

// Validate checks the configuration for consistency.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	return validation.Validate(c)
}

// IsEnabled reports whether any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.SkipVerify || c.CAFile != "" || c.CAPEM != "" || c.CertFile != "" ||
		c.ServerName != "" || c.MinVersion != ""
}

// Build returns a *tls.Config for the settings, or nil when none are set.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in for development hosts
		ServerName:         c.ServerName,
		MinVersion:         tls.VersionTLS12,
	}
	if c.MinVersion == TLS13 {
		cfg.MinVersion = tls.VersionTLS13
	}

	pool, err := c.rootPool()
	if err != nil {
		return nil, err
	}
	cfg.RootCAs = pool

	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, errors.InvalidInput("cert_file", "cannot load client key pair").WithCause(err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func (c *TLSConfig) rootPool() (*x509.CertPool, error) {
	if c.CAFile == "" && c.CAPEM == "" {
		return nil, nil
	}

	pool := x509.NewCertPool()
	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, errors.InvalidInput("ca_file", "cannot read file").WithCause(err)
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.InvalidInput("ca_file", "no PEM certificates found")
		}
	}
	if c.CAPEM != "" && !pool.AppendCertsFromPEM([]byte(c.CAPEM)) {
		return nil, errors.InvalidInput("ca_pem", fmt.Sprintf("no PEM certificates in %d bytes", len(c.CAPEM)))
	}
	return pool, nil
}
