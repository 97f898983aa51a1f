package mockapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/isoclient/component"
	"github.com/kbukum/isoclient/logger"
	"github.com/kbukum/isoclient/validation"
)

var (
	_ component.Component     = (*Server)(nil)
	_ component.Describable   = (*Server)(nil)
	_ component.RouteProvider = (*Server)(nil)
)

// Config holds the mock server settings.
type Config struct {
	Host      string `yaml:"host" mapstructure:"host"`
	Port      int    `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	CSRFToken string `yaml:"csrf_token" mapstructure:"csrf_token"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Server serves the mock API over HTTP/1.1 and h2c.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     Config
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewServer builds a server around NewRouter. A zero port picks a free one
// at Start.
func NewServer(cfg Config, log *logger.Logger) *Server {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	log = log.WithComponent("mockapi")

	engine := NewRouter(Options{CSRFToken: cfg.CSRFToken, Logger: log})
	mux := http.NewServeMux()
	mux.Handle("/", engine)
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
			Handler:           h2c.NewHandler(mux, h2s),
			ReadHeaderTimeout: 10 * time.Second,
		},
		config: cfg,
		log:    log,
	}
}

// Name implements component.Component.
func (s *Server) Name() string { return "mockapi" }

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(_ context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("mockapi failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", map[string]interface{}{"error": err.Error()})
		}
	}()

	s.log.Info("Mock API listening", map[string]interface{}{"addr": ln.Addr().String()})
	return nil
}

// Stop shuts down with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mockapi shutdown: %w", err)
	}
	return nil
}

// Health is healthy once the listener is bound.
func (s *Server) Health(_ context.Context) component.Health {
	h := component.Health{Name: s.Name(), Status: component.StatusHealthy}
	if s.Addr() == "" {
		h.Status = component.StatusUnhealthy
		h.Message = "not listening"
	}
	return h
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the base URL clients should use.
func (s *Server) URL() string {
	if addr := s.Addr(); addr != "" {
		return "http://" + addr
	}
	return ""
}

// Describe implements component.Describable.
func (s *Server) Describe() component.Description {
	details := "csrf off"
	if s.config.CSRFToken != "" {
		details = "csrf on"
	}
	return component.Description{
		Name:    s.Name(),
		Type:    "http-server",
		Details: details,
		Port:    s.config.Port,
	}
}

// Routes implements component.RouteProvider.
func (s *Server) Routes() []component.Route {
	infos := s.engine.Routes()
	routes := make([]component.Route, 0, len(infos))
	for _, r := range infos {
		routes = append(routes, component.Route{Method: r.Method, Path: r.Path, Handler: r.Handler})
	}
	return routes
}
