package interceptors

import (
	"context"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/isoclient/transport"
	"github.com/kbukum/isoclient/validation"
)

// SignerConfig configures SignedBearer.
type SignerConfig struct {
	// Secret is the HS256 key.
	Secret   string        `yaml:"secret" mapstructure:"secret" validate:"required,min=16"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Subject  string        `yaml:"subject" mapstructure:"subject"`
	Audience []string      `yaml:"audience" mapstructure:"audience"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"gte=0"`

	// now is replaced in tests.
	now func() time.Time
}

// ApplyDefaults sets a one-minute TTL.
func (c *SignerConfig) ApplyDefaults() {
	if c.TTL == 0 {
		c.TTL = time.Minute
	}
	if c.now == nil {
		c.now = time.Now
	}
}

// Validate checks the configuration.
func (c *SignerConfig) Validate() error {
	return validation.Validate(c)
}

// SignedBearer mints a short-lived HS256 token for every request and sends
// it as "Authorization: Bearer <token>", replacing any existing value.
func SignedBearer(cfg SignerConfig) (Request, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	key := []byte(cfg.Secret)

	return func(_ context.Context, rc *transport.RequestConfig) (*transport.RequestConfig, error) {
		now := cfg.now()
		claims := gojwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   cfg.Subject,
			Audience:  cfg.Audience,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(cfg.TTL)),
			ID:        uuid.NewString(),
		}
		signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(key)
		if err != nil {
			return nil, fmt.Errorf("signing bearer token: %w", err)
		}
		for k := range rc.Headers {
			if strings.EqualFold(k, "Authorization") {
				delete(rc.Headers, k)
			}
		}
		setHeader(rc, "Authorization", "Bearer "+signed)
		return rc, nil
	}, nil
}
