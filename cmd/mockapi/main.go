// Command mockapi serves a small jsonplaceholder-style API for exercising
// isoclient locally. It speaks HTTP/1.1 and h2c on the same port.
//
// Configuration comes from mockapi.yml or MOCKAPI_* variables:
//
//	MOCKAPI_SERVER_PORT       - listen port (default: 9090)
//	MOCKAPI_SERVER_CSRF_TOKEN - require this X-CSRF-Token on mutating requests
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/isoclient/component"
	"github.com/kbukum/isoclient/config"
	"github.com/kbukum/isoclient/internal/mockapi"
	"github.com/kbukum/isoclient/logger"
)

const serviceName = "mockapi"

type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server               mockapi.Config `yaml:"server" mapstructure:"server"`
}

func main() {
	cfg := appConfig{
		ServiceConfig: config.ServiceConfig{Name: serviceName},
		Server:        mockapi.Config{Port: 9090},
	}
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		logger.NewDefault(serviceName).Error("Failed to load config", logger.ErrorFields("config", err))
		os.Exit(1)
	}
	cfg.ApplyDefaults()
	logger.Init(cfg.Logging, serviceName)
	log := logger.GetGlobalLogger()
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid config", logger.ErrorFields("config", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := component.NewRegistry()
	srv := mockapi.NewServer(cfg.Server, log)
	if err := reg.Register(srv); err != nil {
		log.Error("Failed to register server", logger.ErrorFields("register", err))
		os.Exit(1)
	}
	if err := reg.StartAll(ctx); err != nil {
		log.Error("Failed to start", logger.ErrorFields("start", err))
		os.Exit(1)
	}
	for _, r := range srv.Routes() {
		log.Debug("Route", logger.Fields("method", r.Method, "path", r.Path))
	}

	<-ctx.Done()
	log.Info("Shutting down")
	if err := reg.StopAll(context.Background()); err != nil {
		log.Error("Shutdown failed", logger.ErrorFields("stop", err))
		os.Exit(1)
	}
}
