package transport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/kbukum/isoclient/errors"
	"github.com/kbukum/isoclient/security"
	"github.com/kbukum/isoclient/security/tlstest"
)

type captured struct {
	method      string
	path        string
	body        string
	contentType string
	csrf        string
	host        string
	proto       string
}

func captureServer(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*got = captured{
			method:      r.Method,
			path:        r.URL.Path,
			body:        string(b),
			contentType: r.Header.Get("Content-Type"),
			csrf:        r.Header.Get("X-CSRF-Token"),
			host:        r.Host,
		}
		w.Header().Add("X-Trace", "a")
		w.Header().Add("X-Trace", "b")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func newServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := NewServer(opts...)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestServerGetJSON(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK, `[{"id":1,"title":"first"}]`)
	s := newServer(t)

	resp, err := s.Execute(context.Background(), Call{
		Method: MethodGet,
		URL:    srv.URL + "/posts",
		Config: &RequestConfig{Headers: map[string]string{"X-CSRF-Token": "tok"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.method != http.MethodGet || got.path != "/posts" || got.body != "" {
		t.Errorf("unexpected request %+v", got)
	}
	if got.csrf != "tok" {
		t.Errorf("expected X-CSRF-Token on the wire, got %q", got.csrf)
	}
	if got.contentType != "" {
		t.Errorf("GET must not carry a content type, got %q", got.contentType)
	}

	items, ok := resp.Data.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected decoded array, got %#v", resp.Data)
	}
	if resp.Status != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.Status)
	}
	if resp.Headers["x-trace"] != "a, b" {
		t.Errorf("expected joined lowercase header, got %v", resp.Headers)
	}
	if string(resp.Raw) != `[{"id":1,"title":"first"}]` {
		t.Errorf("unexpected raw body %q", resp.Raw)
	}
}

func TestServerNonJSONBodyFallsBackToText(t *testing.T) {
	srv, _ := captureServer(t, http.StatusBadGateway, "upstream unavailable")
	s := newServer(t)

	resp, err := s.Execute(context.Background(), Call{Method: MethodGet, URL: srv.URL})
	if err != nil {
		t.Fatalf("error statuses and bad JSON must not fail the request: %v", err)
	}
	if resp.Data != "upstream unavailable" {
		t.Errorf("expected raw text, got %#v", resp.Data)
	}
	if resp.Status != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", resp.Status)
	}
}

func TestServerPostBody(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		wantCT string
	}{
		{"default content type", nil, "application/json"},
		{"without content type", []Option{WithoutContentType()}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, got := captureServer(t, http.StatusCreated, `{"id":101,"title":"x"}`)
			s := newServer(t, tt.opts...)

			resp, err := s.Execute(context.Background(), Call{
				Method: MethodPost,
				URL:    srv.URL + "/posts",
				Config: &RequestConfig{Data: map[string]string{"title": "x"}},
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.body != `{"title":"x"}` {
				t.Errorf("body = %q", got.body)
			}
			if got.contentType != tt.wantCT {
				t.Errorf("Content-Type = %q, want %q", got.contentType, tt.wantCT)
			}
			if resp.Status != http.StatusCreated {
				t.Errorf("expected 201, got %d", resp.Status)
			}
		})
	}
}

func TestServerSendsZeroValueData(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK, `{}`)
	s := newServer(t)

	_, err := s.Execute(context.Background(), Call{
		Method: MethodPut,
		URL:    srv.URL,
		Config: &RequestConfig{Data: false},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.body != "false" {
		t.Errorf("expected body false, got %q", got.body)
	}
}

func TestServerEncodeFailure(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK, `{}`)
	s := newServer(t)

	_, err := s.Execute(context.Background(), Call{
		Method: MethodPost,
		URL:    srv.URL,
		Config: &RequestConfig{Data: func() {}},
	})
	if !errors.IsCode(err, errors.ErrCodeEncodeFailed) {
		t.Fatalf("expected ENCODE_FAILED, got %v", err)
	}
	if got.method != "" {
		t.Error("nothing must be sent when encoding fails")
	}
}

func TestServerTransportErrorIsUnmodified(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, "")
	addr := srv.URL
	srv.Close()

	s := newServer(t)
	_, err := s.Execute(context.Background(), Call{Method: MethodGet, URL: addr})

	var urlErr *url.Error
	if !stderrors.As(err, &urlErr) {
		t.Fatalf("expected *url.Error from net/http, got %T %v", err, err)
	}
	if errors.IsAppError(err) {
		t.Error("transport failures must not be wrapped")
	}
}

func TestServerInvalidURL(t *testing.T) {
	s := newServer(t)
	_, err := s.Execute(context.Background(), Call{Method: MethodGet, URL: "http://[::1"})

	var urlErr *url.Error
	if !stderrors.As(err, &urlErr) {
		t.Fatalf("expected parse error, got %T %v", err, err)
	}
}

func TestServerRewritesNonHTTPSSchemeToHTTP(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK, `"ok"`)
	s := newServer(t)

	insecureURL := strings.Replace(srv.URL, "http://", "ws://", 1) + "/socket"
	resp, err := s.Execute(context.Background(), Call{Method: MethodGet, URL: insecureURL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.path != "/socket" || resp.Data != "ok" {
		t.Errorf("expected plain http request, got path %q data %#v", got.path, resp.Data)
	}
}

func TestServerHostHeader(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK, `{}`)
	s := newServer(t)

	_, err := s.Execute(context.Background(), Call{
		Method: MethodGet,
		URL:    srv.URL,
		Config: &RequestConfig{Headers: map[string]string{"Host": "api.example.com"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.host != "api.example.com" {
		t.Errorf("expected Host override, got %q", got.host)
	}
}

func TestServerDoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer srv.Close()
	s := newServer(t)

	resp, err := s.Execute(context.Background(), Call{Method: MethodGet, URL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusFound || resp.Headers["location"] != "/elsewhere" {
		t.Errorf("expected the redirect itself, got %d %v", resp.Status, resp.Headers)
	}
}

func TestServerHTTPSUsesSecureClient(t *testing.T) {
	certs := tlstest.Generate(t)
	srv := tlstest.NewServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"proto": r.Proto, "tls": r.TLS != nil})
	}), certs)

	s := newServer(t, WithTLS(&security.TLSConfig{CAFile: certs.CAFile}))
	resp, err := s.Execute(context.Background(), Call{Method: MethodGet, URL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := resp.Data.(map[string]any)
	if data["tls"] != true {
		t.Errorf("expected TLS request, got %#v", resp.Data)
	}
	if data["proto"] != "HTTP/2.0" {
		t.Errorf("expected HTTP/2 on the secure client, got %#v", data["proto"])
	}
}

func TestServerHTTPSRejectsUntrustedCertificate(t *testing.T) {
	certs := tlstest.Generate(t)
	srv := tlstest.NewServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}), certs)

	s := newServer(t)
	_, err := s.Execute(context.Background(), Call{Method: MethodGet, URL: srv.URL})
	if err == nil {
		t.Fatal("expected certificate verification failure")
	}
}

func TestServerInvalidTLSConfig(t *testing.T) {
	_, err := NewServer(WithTLS(&security.TLSConfig{CAFile: "/nonexistent/ca.pem"}))
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestServerProviderIdentity(t *testing.T) {
	s := newServer(t)
	if s.Name() != "server" || !s.IsAvailable(context.Background()) {
		t.Errorf("unexpected identity %q available=%v", s.Name(), s.IsAvailable(context.Background()))
	}
	if s.secure.Timeout != 0 || s.insecure.Timeout != 0 {
		t.Error("clients must not carry a timeout")
	}
}
