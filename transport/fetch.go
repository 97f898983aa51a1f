package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Fetcher is the subset of the fetch API the browser transport needs.
type Fetcher interface {
	// Fetch starts a request and resolves once response headers arrive.
	Fetch(ctx context.Context, url string, init FetchInit) (FetchResponse, error)
	// Available reports whether the host provides fetch.
	Available() bool
}

// FetchInit mirrors the RequestInit dictionary. A nil Body sends no body.
type FetchInit struct {
	Method  string
	Headers map[string]string
	Body    []byte
}

// FetchResponse mirrors the parts of a fetch Response that are read.
type FetchResponse interface {
	Status() int
	// ForEachHeader calls fn for every header in the order and argument
	// order of Headers.forEach.
	ForEachHeader(fn func(value, key string))
	// Text reads the whole body.
	Text(ctx context.Context) (string, error)
}

// HTTPFetcher emulates fetch over net/http. Like fetch it follows
// redirects and combines repeated headers.
type HTTPFetcher struct {
	Client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Available implements Fetcher.
func (f *HTTPFetcher) Available() bool { return true }

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, init FetchInit) (FetchResponse, error) {
	var body io.Reader
	if init.Body != nil {
		body = bytes.NewReader(init.Body)
	}
	req, err := http.NewRequestWithContext(ctx, init.Method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range init.Headers {
		req.Header.Set(k, v)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	return &httpFetchResponse{resp: resp}, nil
}

// CloseIdleConnections releases the underlying client's idle connections.
func (f *HTTPFetcher) CloseIdleConnections() {
	if f.Client != nil {
		f.Client.CloseIdleConnections()
	}
}

type httpFetchResponse struct {
	resp *http.Response
	once sync.Once
	text string
	err  error
}

func (r *httpFetchResponse) Status() int { return r.resp.StatusCode }

func (r *httpFetchResponse) ForEachHeader(fn func(value, key string)) {
	keys := make([]string, 0, len(r.resp.Header))
	for k := range r.resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(strings.Join(r.resp.Header[k], ", "), strings.ToLower(k))
	}
}

func (r *httpFetchResponse) Text(context.Context) (string, error) {
	r.once.Do(func() {
		defer func() { _ = r.resp.Body.Close() }()
		b, err := io.ReadAll(r.resp.Body)
		r.text, r.err = string(b), err
	})
	return r.text, r.err
}

func newFetchClient() *http.Client {
	return &http.Client{Transport: newHTTPTransport()}
}
