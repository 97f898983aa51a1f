package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http2"

	"github.com/kbukum/isoclient/env"
	"github.com/kbukum/isoclient/errors"
)

// Server performs requests with net/http. https URLs go through the secure
// client, every other scheme is sent as plain http through the insecure
// one. Redirects are returned to the caller, not followed.
type Server struct {
	secure          *http.Client
	insecure        *http.Client
	omitContentType bool
}

var _ Transport = (*Server)(nil)

// NewServer builds both clients. Neither has a timeout.
func NewServer(opts ...Option) (*Server, error) {
	o := applyOptions(opts)

	tlsCfg := o.tlsConfig
	if tlsCfg == nil {
		built, err := o.tls.Build()
		if err != nil {
			return nil, err
		}
		tlsCfg = built
	}
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	} else {
		tlsCfg = tlsCfg.Clone()
	}

	secureTransport := newHTTPTransport()
	secureTransport.TLSClientConfig = tlsCfg
	if err := http2.ConfigureTransport(secureTransport); err != nil {
		return nil, errors.Internal(err).WithDetail("transport", env.Server)
	}

	return &Server{
		secure:          newHTTPClient(secureTransport),
		insecure:        newHTTPClient(newHTTPTransport()),
		omitContentType: o.omitContentType,
	}, nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{}).DialContext,
		MaxIdleConnsPerHost: 16,
	}
}

func newHTTPClient(rt http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: rt,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Name implements provider.Provider.
func (s *Server) Name() string { return env.Server }

// IsAvailable implements provider.Provider. A native runtime always has
// sockets.
func (s *Server) IsAvailable(context.Context) bool { return true }

// Execute sends call and returns the full response. Failures from net/http
// are returned as they are.
func (s *Server) Execute(ctx context.Context, call Call) (*Response, error) {
	u, err := url.Parse(call.URL)
	if err != nil {
		return nil, err
	}

	client := s.insecure
	if u.Scheme == "https" {
		client = s.secure
	} else {
		u.Scheme = "http"
	}

	cfg := call.Config
	if cfg == nil {
		cfg = &RequestConfig{}
	}
	headers, body, err := wireRequest(cfg, s.omitContentType)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, call.Method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		if strings.EqualFold(k, "Host") {
			req.Host = v
			continue
		}
		req.Header[k] = []string{v}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Data:    decodeBody(raw),
		Status:  resp.StatusCode,
		Headers: flattenHeaders(resp.Header),
		Raw:     raw,
	}, nil
}

// Close releases idle connections of both clients.
func (s *Server) Close(context.Context) error {
	s.secure.CloseIdleConnections()
	s.insecure.CloseIdleConnections()
	return nil
}

// flattenHeaders lowercases names and joins repeated values with ", ".
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[strings.ToLower(k)] = strings.Join(vs, ", ")
	}
	return out
}
