package transport

import (
	"maps"

	"github.com/kbukum/isoclient/provider"
)

// Supported request methods.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// RequestConfig describes one request as it moves through the request
// interceptors. Data == nil means the request has no body.
type RequestConfig struct {
	Method   string            `json:"method" yaml:"method"`
	Endpoint string            `json:"endpoint" yaml:"endpoint"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Data     any               `json:"data,omitempty" yaml:"data,omitempty"`
	// Extra carries caller-supplied fields the client does not interpret.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Clone returns a copy whose Headers and Extra maps are independent of rc.
// Data is shared.
func (rc *RequestConfig) Clone() *RequestConfig {
	if rc == nil {
		return &RequestConfig{Headers: map[string]string{}}
	}
	cp := *rc
	cp.Headers = maps.Clone(rc.Headers)
	if cp.Headers == nil {
		cp.Headers = map[string]string{}
	}
	cp.Extra = maps.Clone(rc.Extra)
	return &cp
}

// HasBody reports whether the request carries a body.
func (rc *RequestConfig) HasBody() bool {
	return rc != nil && rc.Data != nil
}

// Response is the unified result of a transport call.
type Response struct {
	// Data is the decoded JSON value, or the body text when it is not JSON.
	Data    any               `json:"data" yaml:"data"`
	Status  int               `json:"status" yaml:"status"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	// Raw is the body exactly as received.
	Raw []byte `json:"-" yaml:"-"`
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsError reports a 4xx or 5xx status.
func (r *Response) IsError() bool {
	return r.Status >= 400
}

// Call is the input of a transport: the dispatched method, the absolute
// URL and the final request configuration.
type Call struct {
	Method string
	URL    string
	Config *RequestConfig
}

// Transport performs exactly one HTTP exchange per Execute.
type Transport interface {
	provider.RequestResponse[Call, *Response]
}
