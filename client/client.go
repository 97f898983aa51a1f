package client

import (
	"context"
	"strings"
	"sync"

	"github.com/kbukum/isoclient/chain"
	"github.com/kbukum/isoclient/env"
	"github.com/kbukum/isoclient/logger"
	"github.com/kbukum/isoclient/provider"
	"github.com/kbukum/isoclient/transport"
	"github.com/kbukum/isoclient/validation"
)

// CSRFHeader carries the configured credential token.
const CSRFHeader = "X-CSRF-Token"

type (
	// RequestConfig is the request as seen by request interceptors.
	RequestConfig = transport.RequestConfig
	// Response is the response as seen by response interceptors.
	Response = transport.Response
	// RequestInterceptor transforms a request before dispatch.
	RequestInterceptor = chain.Func[*RequestConfig]
	// ResponseInterceptor transforms a response after dispatch.
	ResponseInterceptor = chain.Func[*Response]
)

// Client is safe for concurrent use. Interceptors can be added at any
// time; a request already running keeps the interceptors it started with.
type Client struct {
	cfg Config

	mu        sync.RWMutex
	baseURL   string
	csrfToken string

	requests  chain.Chain[*RequestConfig]
	responses chain.Chain[*Response]

	transports *provider.Manager[transport.Transport]
}

// New validates cfg and builds a client with both transports.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{detector: env.Default}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.log == nil {
		o.log = logger.Get(cfg.ServiceName)
	}

	var topts []transport.Option
	if cfg.OmitContentType {
		topts = append(topts, transport.WithoutContentType())
	}
	if o.server == nil {
		server, err := transport.NewServer(append(topts, transport.WithTLS(cfg.TLS))...)
		if err != nil {
			return nil, err
		}
		o.server = server
	}
	if o.browser == nil {
		o.browser = transport.NewBrowser(o.fetcher, topts...)
	}

	mgr := provider.NewManager[transport.Transport](env.NewSelector[transport.Transport](o.detector), o.log)

	wrap := provider.Chain(middlewareFor(cfg, o)...)
	for name, t := range map[string]transport.Transport{env.Server: o.server, env.Browser: o.browser} {
		closer, _ := t.(provider.Closeable)
		mgr.Add(name, wrap(t), closer)
	}

	return &Client{
		cfg:        cfg,
		baseURL:    cfg.BaseURL,
		csrfToken:  cfg.CSRFToken,
		transports: mgr,
	}, nil
}

func middlewareFor(cfg Config, o options) []provider.Middleware[transport.Call, *transport.Response] {
	mws := []provider.Middleware[transport.Call, *transport.Response]{
		provider.WithLogging(o.log, logFields),
	}
	if o.metrics != nil {
		mws = append(mws, provider.WithMetrics[transport.Call, *transport.Response](o.metrics, callMethod))
	}
	if cfg.Tracing {
		mws = append(mws,
			provider.WithTracing(cfg.ServiceName, spanAttributes),
			propagateTrace,
		)
	}
	return append(mws, o.middleware...)
}

var logFields = provider.Describer[transport.Call, *transport.Response]{
	Input: func(c transport.Call) map[string]any {
		return map[string]any{logger.FieldMethod: c.Method, logger.FieldURL: c.URL}
	},
	Output: func(r *transport.Response) map[string]any {
		return map[string]any{logger.FieldStatus: r.Status}
	},
}

func callMethod(c transport.Call) string { return c.Method }

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetCSRFToken replaces the credential token for requests started after
// the call. An empty token disables the header.
func (c *Client) SetCSRFToken(token string) {
	c.mu.Lock()
	c.csrfToken = token
	c.mu.Unlock()
}

// CSRFToken returns the current credential token.
func (c *Client) CSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

// AddRequestInterceptor appends fn to the request chain.
func (c *Client) AddRequestInterceptor(fn RequestInterceptor) {
	c.requests.Append(fn)
}

// AddResponseInterceptor appends fn to the response chain.
func (c *Client) AddResponseInterceptor(fn ResponseInterceptor) {
	c.responses.Append(fn)
}

// Request performs one request. method must be GET, POST, PUT or DELETE.
// Interceptor and transport errors are returned as they are; errors
// raised by the client itself are *errors.AppError.
func (c *Client) Request(ctx context.Context, method, endpoint string, opts ...RequestOption) (*Response, error) {
	if err := validation.Var("method", method, "oneof=GET POST PUT DELETE"); err != nil {
		return nil, err
	}

	rc := &RequestConfig{Method: method, Endpoint: endpoint, Headers: make(map[string]string)}
	for _, opt := range opts {
		if opt != nil {
			opt(rc)
		}
	}

	c.mu.RLock()
	baseURL, token := c.baseURL, c.csrfToken
	c.mu.RUnlock()

	if token != "" {
		for k := range rc.Headers {
			if strings.EqualFold(k, CSRFHeader) {
				delete(rc.Headers, k)
			}
		}
		rc.Headers[CSRFHeader] = token
	}

	rc, err := c.requests.Run(ctx, rc)
	if err != nil {
		return nil, err
	}

	t, err := c.transports.Get(ctx)
	if err != nil {
		return nil, err
	}

	call := transport.Call{Method: method, URL: baseURL + rc.Endpoint, Config: rc.Clone()}
	resp, err := t.Execute(ctx, call)
	if err != nil {
		return nil, err
	}

	resp, err = c.responses.Run(ctx, resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get sends a GET request without a body.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, transport.MethodGet, endpoint, withLast(opts, withoutData)...)
}

// Delete sends a DELETE request without a body.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, transport.MethodDelete, endpoint, withLast(opts, withoutData)...)
}

// Post sends data as the JSON body, overriding any WithData option.
func (c *Client) Post(ctx context.Context, endpoint string, data any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, transport.MethodPost, endpoint, withLast(opts, WithData(data))...)
}

// Put sends data as the JSON body, overriding any WithData option.
func (c *Client) Put(ctx context.Context, endpoint string, data any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, transport.MethodPut, endpoint, withLast(opts, WithData(data))...)
}

// withLast appends last to a copy of opts so the caller's slice is never
// written to.
func withLast(opts []RequestOption, last RequestOption) []RequestOption {
	return append(opts[:len(opts):len(opts)], last)
}

// Transport returns the transport the detector selects for this runtime.
func (c *Client) Transport(ctx context.Context) (transport.Transport, error) {
	return c.transports.Get(ctx)
}

// Close releases idle connections held by the transports.
func (c *Client) Close(ctx context.Context) error {
	return c.transports.Close(ctx)
}
