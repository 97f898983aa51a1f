package interceptors

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/isoclient/chain"
	"github.com/kbukum/isoclient/transport"
)

// DefaultRequestIDHeader is used by RequestID when no header is given.
const DefaultRequestIDHeader = "X-Request-ID"

type (
	// Request is a request interceptor.
	Request = chain.Func[*transport.RequestConfig]
	// Response is a response interceptor.
	Response = chain.Func[*transport.Response]
)

// RequestID sets header to a new UUID unless the request already carries
// it in any letter case.
func RequestID(header string) Request {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return func(_ context.Context, rc *transport.RequestConfig) (*transport.RequestConfig, error) {
		if _, ok := lookup(rc.Headers, header); ok {
			return rc, nil
		}
		setHeader(rc, header, uuid.NewString())
		return rc, nil
	}
}

// StaticHeaders adds headers the request does not already carry.
func StaticHeaders(headers map[string]string) Request {
	fixed := make(map[string]string, len(headers))
	for k, v := range headers {
		fixed[k] = v
	}
	return func(_ context.Context, rc *transport.RequestConfig) (*transport.RequestConfig, error) {
		for k, v := range fixed {
			if _, ok := lookup(rc.Headers, k); !ok {
				setHeader(rc, k, v)
			}
		}
		return rc, nil
	}
}

// Annotate sets key to value on JSON object responses. Arrays, raw text and
// scalars have no field to set and pass through untouched; wrapping them
// would change the body shape callers decode.
func Annotate(key string, value any) Response {
	return func(_ context.Context, r *transport.Response) (*transport.Response, error) {
		if obj, ok := r.Data.(map[string]any); ok {
			obj[key] = value
		}
		return r, nil
	}
}

func lookup(headers map[string]string, name string) (string, bool) {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func setHeader(rc *transport.RequestConfig, key, value string) {
	if rc.Headers == nil {
		rc.Headers = make(map[string]string)
	}
	rc.Headers[key] = value
}
