package client

// RequestOption sets a field of the initial RequestConfig.
type RequestOption func(*RequestConfig)

// WithHeader sets one header.
func WithHeader(key, value string) RequestOption {
	return func(rc *RequestConfig) {
		rc.Headers[key] = value
	}
}

// WithHeaders copies headers into the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(rc *RequestConfig) {
		for k, v := range headers {
			rc.Headers[k] = v
		}
	}
}

// WithData sets the request body. Post and Put override it.
func WithData(data any) RequestOption {
	return func(rc *RequestConfig) { rc.Data = data }
}

// WithField stores a caller-defined field in RequestConfig.Extra for
// interceptors to read.
func WithField(key string, value any) RequestOption {
	return func(rc *RequestConfig) {
		if rc.Extra == nil {
			rc.Extra = make(map[string]any)
		}
		rc.Extra[key] = value
	}
}

func withoutData(rc *RequestConfig) { rc.Data = nil }
