package client_test

import (
	"context"
	stderrors "errors"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/isoclient/client"
	"github.com/kbukum/isoclient/env"
	"github.com/kbukum/isoclient/errors"
	"github.com/kbukum/isoclient/internal/mockapi"
	"github.com/kbukum/isoclient/logger"
	"github.com/kbukum/isoclient/transport"
)

func newAPI(t *testing.T, opts mockapi.Options) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mockapi.NewRouter(opts))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, cfg client.Config, opts ...client.Option) *client.Client {
	t.Helper()
	opts = append([]client.Option{client.WithLogger(logger.NewNop())}, opts...)
	c, err := client.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c
}

// recorder is a transport that captures calls instead of sending them.
type recorder struct {
	name  string
	mu    sync.Mutex
	calls []transport.Call
}

func (r *recorder) Name() string                     { return r.name }
func (r *recorder) IsAvailable(context.Context) bool { return true }
func (r *recorder) Execute(_ context.Context, call transport.Call) (*transport.Response, error) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	return &transport.Response{Status: 200, Headers: map[string]string{}, Data: "ok"}, nil
}

func (r *recorder) last(t *testing.T) transport.Call {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		t.Fatal("transport was not called")
	}
	return r.calls[len(r.calls)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func recordingClient(t *testing.T, cfg client.Config) (*client.Client, *recorder) {
	t.Helper()
	rec := &recorder{name: env.Server}
	c := newClient(t, cfg,
		client.WithTransports(rec, &recorder{name: env.Browser}),
		client.WithDetector(env.Static(true)),
	)
	return c, rec
}

func echo(t *testing.T, c *client.Client, opts ...client.RequestOption) map[string]any {
	t.Helper()
	resp, err := c.Get(context.Background(), "/echo", opts...)
	if err != nil {
		t.Fatalf("GET /echo: %v", err)
	}
	headers, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected echo data %T", resp.Data)
	}
	return headers
}

func TestClient_GetJSON(t *testing.T) {
	api := newAPI(t, mockapi.Options{})
	c := newClient(t, client.Config{BaseURL: api.URL})

	resp, err := c.Get(context.Background(), "/posts/1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.Status != 200 || !resp.IsSuccess() {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	post, ok := resp.Data.(map[string]any)
	if !ok || post["title"] != "sunt aut facere" {
		t.Fatalf("unexpected data %#v", resp.Data)
	}
	if ct := resp.Headers["content-type"]; !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected lowercase content-type header, got %v", resp.Headers)
	}
}

func TestClient_NonJSONBody(t *testing.T) {
	api := newAPI(t, mockapi.Options{})
	c := newClient(t, client.Config{BaseURL: api.URL})

	resp, err := c.Get(context.Background(), "/text")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.Data != mockapi.TextBody {
		t.Fatalf("expected raw text, got %#v", resp.Data)
	}
}

func TestClient_ErrorStatusIsAResponse(t *testing.T) {
	api := newAPI(t, mockapi.Options{})
	c := newClient(t, client.Config{BaseURL: api.URL})

	resp, err := c.Get(context.Background(), "/posts/99")
	if err != nil {
		t.Fatalf("a 404 should not be an error: %v", err)
	}
	if resp.Status != 404 || !resp.IsError() {
		t.Fatalf("expected 404, got %d", resp.Status)
	}
}

func TestClient_BaseURLConcatenatedVerbatim(t *testing.T) {
	api := newAPI(t, mockapi.Options{})
	c := newClient(t, client.Config{BaseURL: api.URL + "/po"})

	resp, err := c.Get(context.Background(), "sts/2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.Status != 200 {
		t.Fatalf("expected /posts/2 to resolve, got %d", resp.Status)
	}

	rc, rec := recordingClient(t, client.Config{BaseURL: "https://api.example.com/v1/"})
	if _, err := rc.Get(context.Background(), "/users"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).URL; got != "https://api.example.com/v1//users" {
		t.Errorf("URL must not be normalized, got %q", got)
	}
}

func TestClient_CSRFToken(t *testing.T) {
	api := newAPI(t, mockapi.Options{})

	t.Run("injected", func(t *testing.T) {
		c := newClient(t, client.Config{BaseURL: api.URL, CSRFToken: "tok"})
		if got := echo(t, c)["x-csrf-token"]; got != "tok" {
			t.Fatalf("expected tok, got %v", got)
		}
	})

	t.Run("replaces caller header in any case", func(t *testing.T) {
		c := newClient(t, client.Config{BaseURL: api.URL, CSRFToken: "tok"})
		got := echo(t, c, client.WithHeader("x-csrf-token", "stale"))["x-csrf-token"]
		if got != "tok" {
			t.Fatalf("expected only the configured token, got %v", got)
		}
	})

	t.Run("absent without a token", func(t *testing.T) {
		c := newClient(t, client.Config{BaseURL: api.URL})
		if _, ok := echo(t, c)["x-csrf-token"]; ok {
			t.Fatal("no token configured, header should be absent")
		}
	})

	t.Run("caller header kept without a token", func(t *testing.T) {
		c := newClient(t, client.Config{BaseURL: api.URL})
		if got := echo(t, c, client.WithHeader(client.CSRFHeader, "mine"))["x-csrf-token"]; got != "mine" {
			t.Fatalf("expected caller token, got %v", got)
		}
	})

	t.Run("interceptors see the token", func(t *testing.T) {
		c, _ := recordingClient(t, client.Config{CSRFToken: "tok"})
		var seen string
		c.AddRequestInterceptor(func(_ context.Context, rc *client.RequestConfig) (*client.RequestConfig, error) {
			seen = rc.Headers[client.CSRFHeader]
			return rc, nil
		})
		if _, err := c.Get(context.Background(), "/"); err != nil {
			t.Fatal(err)
		}
		if seen != "tok" {
			t.Fatalf("expected token before interceptors, got %q", seen)
		}
	})
}

func TestClient_SetCSRFToken(t *testing.T) {
	api := newAPI(t, mockapi.Options{CSRFToken: "secret"})
	c := newClient(t, client.Config{BaseURL: api.URL})
	ctx := context.Background()

	resp, err := c.Post(ctx, "/posts", map[string]any{"title": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != 403 {
		t.Fatalf("expected 403 without token, got %d", resp.Status)
	}

	c.SetCSRFToken("secret")
	if c.CSRFToken() != "secret" {
		t.Fatalf("unexpected token %q", c.CSRFToken())
	}
	resp, err = c.Post(ctx, "/posts", map[string]any{"title": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != 201 {
		t.Fatalf("expected 201 with token, got %d", resp.Status)
	}

	c.SetCSRFToken("")
	if _, ok := echo(t, c)["x-csrf-token"]; ok {
		t.Fatal("clearing the token should drop the header")
	}
}

func TestClient_SetCSRFTokenDuringRequest(t *testing.T) {
	c, rec := recordingClient(t, client.Config{CSRFToken: "old"})
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	c.AddRequestInterceptor(func(_ context.Context, rc *client.RequestConfig) (*client.RequestConfig, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		return rc, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background(), "/first")
		done <- err
	}()
	<-entered
	c.SetCSRFToken("new")
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Config.Headers[client.CSRFHeader]; got != "old" {
		t.Fatalf("in-flight request should keep the old token, got %q", got)
	}

	if _, err := c.Get(context.Background(), "/second"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Config.Headers[client.CSRFHeader]; got != "new" {
		t.Fatalf("next request should carry the new token, got %q", got)
	}
}

func TestClient_IndependentResponses(t *testing.T) {
	api := newAPI(t, mockapi.Options{})
	c := newClient(t, client.Config{BaseURL: api.URL})
	ctx := context.Background()

	first, err := c.Get(ctx, "/posts/1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Get(ctx, "/posts/1")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("expected distinct responses")
	}

	firstData, ok := first.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data %T", first.Data)
	}
	firstData["title"] = "changed"
	first.Headers["x-changed"] = "1"

	secondData := second.Data.(map[string]any)
	if secondData["title"] != "sunt aut facere" {
		t.Errorf("second response data changed: %v", secondData["title"])
	}
	if _, ok := second.Headers["x-changed"]; ok {
		t.Error("second response headers changed")
	}
}

func TestClient_RequestInterceptorOrder(t *testing.T) {
	c, rec := recordingClient(t, client.Config{})
	for _, tag := range []string{"a", "b", "c"} {
		c.AddRequestInterceptor(func(_ context.Context, rc *client.RequestConfig) (*client.RequestConfig, error) {
			rc.Headers["X-Order"] += tag
			return rc, nil
		})
	}
	if _, err := c.Get(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Config.Headers["X-Order"]; got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}

func TestClient_RequestInterceptorNilKeepsConfig(t *testing.T) {
	c, rec := recordingClient(t, client.Config{})
	c.AddRequestInterceptor(func(context.Context, *client.RequestConfig) (*client.RequestConfig, error) {
		return nil, nil
	})
	if _, err := c.Get(context.Background(), "/kept", client.WithHeader("X-A", "1")); err != nil {
		t.Fatal(err)
	}
	call := rec.last(t)
	if call.URL != "/kept" || call.Config.Headers["X-A"] != "1" {
		t.Fatalf("nil result should keep the config, got %+v", call)
	}
}

func TestClient_RequestInterceptorAbort(t *testing.T) {
	c, rec := recordingClient(t, client.Config{})
	boom := stderrors.New("boom")
	var after atomic.Bool
	c.AddRequestInterceptor(func(context.Context, *client.RequestConfig) (*client.RequestConfig, error) {
		return nil, boom
	})
	c.AddRequestInterceptor(func(_ context.Context, rc *client.RequestConfig) (*client.RequestConfig, error) {
		after.Store(true)
		return rc, nil
	})

	resp, err := c.Get(context.Background(), "/")
	if err != boom {
		t.Fatalf("expected the interceptor error unchanged, got %v", err)
	}
	if resp != nil {
		t.Fatal("expected no response")
	}
	if after.Load() || rec.count() != 0 {
		t.Fatal("later interceptors and the transport must not run")
	}
}

func TestClient_DispatchUsesCallerMethodAndFinalEndpoint(t *testing.T) {
	c, rec := recordingClient(t, client.Config{BaseURL: "https://api.example.com"})
	c.AddRequestInterceptor(func(_ context.Context, rc *client.RequestConfig) (*client.RequestConfig, error) {
		out := rc.Clone()
		out.Method = transport.MethodDelete
		out.Endpoint = "/rewritten"
		return out, nil
	})
	if _, err := c.Get(context.Background(), "/original"); err != nil {
		t.Fatal(err)
	}
	call := rec.last(t)
	if call.Method != transport.MethodGet {
		t.Errorf("expected caller's method GET, got %s", call.Method)
	}
	if call.URL != "https://api.example.com/rewritten" {
		t.Errorf("expected interceptor endpoint, got %s", call.URL)
	}
}

func TestClient_ResponseInterceptors(t *testing.T) {
	c, _ := recordingClient(t, client.Config{})
	c.AddResponseInterceptor(func(_ context.Context, r *client.Response) (*client.Response, error) {
		r.Data = r.Data.(string) + "-1"
		return r, nil
	})
	c.AddResponseInterceptor(func(_ context.Context, r *client.Response) (*client.Response, error) {
		r.Data = r.Data.(string) + "-2"
		return r, nil
	})

	resp, err := c.Get(context.Background(), "/")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Data != "ok-1-2" {
		t.Fatalf("expected interceptors in order, got %v", resp.Data)
	}

	boom := stderrors.New("reject")
	c.AddResponseInterceptor(func(context.Context, *client.Response) (*client.Response, error) {
		return nil, boom
	})
	resp, err = c.Get(context.Background(), "/")
	if err != boom || resp != nil {
		t.Fatalf("expected (nil, reject), got (%v, %v)", resp, err)
	}
}

func TestClient_VerbsAndBodies(t *testing.T) {
	c, rec := recordingClient(t, client.Config{})
	ctx := context.Background()

	if _, err := c.Get(ctx, "/g", client.WithData("ignored")); err != nil {
		t.Fatal(err)
	}
	if call := rec.last(t); call.Method != "GET" || call.Config.HasBody() {
		t.Errorf("GET must not carry a body: %+v", call.Config)
	}

	if _, err := c.Delete(ctx, "/d", client.WithData("ignored")); err != nil {
		t.Fatal(err)
	}
	if call := rec.last(t); call.Method != "DELETE" || call.Config.HasBody() {
		t.Errorf("DELETE must not carry a body: %+v", call.Config)
	}

	if _, err := c.Post(ctx, "/p", map[string]int{"n": 1}, client.WithData("overridden")); err != nil {
		t.Fatal(err)
	}
	if call := rec.last(t); call.Method != "POST" || call.Config.Data.(map[string]int)["n"] != 1 {
		t.Errorf("POST must carry its data argument: %+v", call.Config)
	}

	if _, err := c.Put(ctx, "/u", []int{1}); err != nil {
		t.Fatal(err)
	}
	if call := rec.last(t); call.Method != "PUT" || !call.Config.HasBody() {
		t.Errorf("PUT must carry a body: %+v", call.Config)
	}
}

func TestClient_OptionsSliceNotMutated(t *testing.T) {
	c, _ := recordingClient(t, client.Config{})
	opts := make([]client.RequestOption, 1, 4)
	opts[0] = client.WithHeader("X-A", "1")

	if _, err := c.Post(context.Background(), "/", 1, opts...); err != nil {
		t.Fatal(err)
	}
	extended := opts[:2]
	if extended[1] != nil {
		t.Fatal("Post wrote into the caller's backing array")
	}
}

func TestClient_InvalidMethod(t *testing.T) {
	c, rec := recordingClient(t, client.Config{})
	_, err := c.Request(context.Background(), "PATCH", "/")
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if rec.count() != 0 {
		t.Fatal("transport must not run")
	}
}

func TestClient_EncodeFailure(t *testing.T) {
	api := newAPI(t, mockapi.Options{})
	c := newClient(t, client.Config{BaseURL: api.URL})
	_, err := c.Post(context.Background(), "/posts", make(chan int))
	if !errors.IsCode(err, errors.ErrCodeEncodeFailed) {
		t.Fatalf("expected ENCODE_FAILED, got %v", err)
	}
}

func TestClient_WithFieldReachesInterceptors(t *testing.T) {
	c, _ := recordingClient(t, client.Config{})
	var got any
	c.AddRequestInterceptor(func(_ context.Context, rc *client.RequestConfig) (*client.RequestConfig, error) {
		got = rc.Extra["retry"]
		return rc, nil
	})
	if _, err := c.Get(context.Background(), "/", client.WithField("retry", 3)); err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Fatalf("expected extra field, got %v", got)
	}
}

func TestClient_InvalidConfig(t *testing.T) {
	_, err := client.New(client.Config{BaseURL: "https://api.example.com\n"})
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestClient_RelativeBaseURL(t *testing.T) {
	for base, want := range map[string]string{
		"/api":            "/api/posts",
		"api.example.com": "api.example.com/posts",
		"":                "/posts",
	} {
		t.Run(base, func(t *testing.T) {
			rec := &recorder{name: env.Browser}
			c := newClient(t, client.Config{BaseURL: base},
				client.WithTransports(&recorder{name: env.Server}, rec),
				client.WithDetector(env.Static(false)),
			)
			if _, err := c.Get(context.Background(), "/posts"); err != nil {
				t.Fatal(err)
			}
			if got := rec.last(t).URL; got != want {
				t.Fatalf("expected %q, got %q", want, got)
			}
		})
	}
}

func TestClient_BrowserTransport(t *testing.T) {
	api := newAPI(t, mockapi.Options{})
	c := newClient(t, client.Config{BaseURL: api.URL, CSRFToken: "tok"},
		client.WithDetector(env.Static(false)),
		client.WithFetcher(&transport.HTTPFetcher{Client: api.Client()}),
	)

	tr, err := c.Transport(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name() != env.Browser {
		t.Fatalf("expected browser transport, got %s", tr.Name())
	}

	if got := echo(t, c)["x-csrf-token"]; got != "tok" {
		t.Fatalf("expected token over fetch, got %v", got)
	}

	resp, err := client.PostAs[mockapi.Post](c, context.Background(), "/posts", mockapi.Post{Title: "via fetch"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != 201 || resp.Data.Title != "via fetch" || resp.Data.ID == 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

type unavailableFetcher struct{ transport.HTTPFetcher }

func (unavailableFetcher) Available() bool { return false }

func TestClient_BrowserWithoutFetch(t *testing.T) {
	c := newClient(t, client.Config{},
		client.WithDetector(env.Static(false)),
		client.WithFetcher(&unavailableFetcher{}),
	)
	_, err := c.Get(context.Background(), "/")
	if !errors.IsCode(err, errors.ErrCodeUnsupportedEnvironment) {
		t.Fatalf("expected UNSUPPORTED_ENVIRONMENT, got %v", err)
	}
}

func TestClient_ConcurrentUse(t *testing.T) {
	api := newAPI(t, mockapi.Options{})
	c := newClient(t, client.Config{BaseURL: api.URL})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background(), "/posts"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			c.AddRequestInterceptor(func(_ context.Context, rc *client.RequestConfig) (*client.RequestConfig, error) {
				return rc, nil
			})
			c.SetCSRFToken("t")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
