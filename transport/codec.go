package transport

import (
	"crypto/tls"
	"encoding/json"
	"strings"

	"github.com/kbukum/isoclient/errors"
	"github.com/kbukum/isoclient/security"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Option configures a transport.
type Option func(*options)

type options struct {
	tls             *security.TLSConfig
	tlsConfig       *tls.Config
	omitContentType bool
}

// WithTLS sets the secure client's TLS settings.
func WithTLS(cfg *security.TLSConfig) Option {
	return func(o *options) { o.tls = cfg }
}

// WithTLSClientConfig sets a prepared *tls.Config for the secure client.
// It takes precedence over WithTLS.
func WithTLSClientConfig(cfg *tls.Config) Option {
	return func(o *options) { o.tlsConfig = cfg }
}

// WithoutContentType stops the transport from adding
// "Content-Type: application/json" to requests with a body.
func WithoutContentType() Option {
	return func(o *options) { o.omitContentType = true }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// encodeData returns the JSON text of v.
func encodeData(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.EncodeFailed(err)
	}
	return b, nil
}

// decodeBody returns the parsed JSON value of raw, or raw as a string when
// it is not valid JSON. It never fails.
func decodeBody(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// wireRequest returns the headers and body to put on the wire for cfg.
// cfg is not modified.
func wireRequest(cfg *RequestConfig, omitContentType bool) (map[string]string, []byte, error) {
	headers := make(map[string]string, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if !cfg.HasBody() {
		return headers, nil, nil
	}
	body, err := encodeData(cfg.Data)
	if err != nil {
		return nil, nil, err
	}
	if !omitContentType {
		ensureJSONContentType(headers)
	}
	return headers, body, nil
}

// ensureJSONContentType sets Content-Type unless some casing of it is
// already present.
func ensureJSONContentType(headers map[string]string) {
	for k := range headers {
		if strings.EqualFold(k, headerContentType) {
			return
		}
	}
	headers[headerContentType] = contentTypeJSON
}
