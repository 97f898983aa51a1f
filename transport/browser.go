package transport

import (
	"context"
	"strings"

	"github.com/kbukum/isoclient/env"
	"github.com/kbukum/isoclient/errors"
)

// Browser performs requests through a Fetcher.
type Browser struct {
	fetcher         Fetcher
	omitContentType bool
}

var _ Transport = (*Browser)(nil)

// NewBrowser returns a browser transport over fetcher, or over
// DefaultFetcher when fetcher is nil. TLS options are ignored: the host
// owns TLS for fetch.
func NewBrowser(fetcher Fetcher, opts ...Option) *Browser {
	if fetcher == nil {
		fetcher = DefaultFetcher()
	}
	o := applyOptions(opts)
	return &Browser{fetcher: fetcher, omitContentType: o.omitContentType}
}

// Name implements provider.Provider.
func (b *Browser) Name() string { return env.Browser }

// IsAvailable reports whether the fetcher can be used.
func (b *Browser) IsAvailable(context.Context) bool { return b.fetcher.Available() }

// Execute fetches call.URL, waits for the body and decodes it the same way
// as the server transport.
func (b *Browser) Execute(ctx context.Context, call Call) (*Response, error) {
	if !b.fetcher.Available() {
		return nil, errors.UnsupportedEnvironment("fetch")
	}

	cfg := call.Config
	if cfg == nil {
		cfg = &RequestConfig{}
	}
	headers, body, err := wireRequest(cfg, b.omitContentType)
	if err != nil {
		return nil, err
	}

	res, err := b.fetcher.Fetch(ctx, call.URL, FetchInit{
		Method:  call.Method,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, err
	}

	text, err := res.Text(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	res.ForEachHeader(func(value, key string) {
		out[strings.ToLower(key)] = value
	})

	return &Response{
		Data:    decodeBody([]byte(text)),
		Status:  res.Status(),
		Headers: out,
		Raw:     []byte(text),
	}, nil
}

// Close releases idle connections when the fetcher holds any.
func (b *Browser) Close(context.Context) error {
	if c, ok := b.fetcher.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
	return nil
}
