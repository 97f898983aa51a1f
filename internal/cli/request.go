package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kbukum/isoclient/client"
	"github.com/kbukum/isoclient/component"
	"github.com/kbukum/isoclient/errors"
	"github.com/kbukum/isoclient/interceptors"
	"github.com/kbukum/isoclient/logger"
	"github.com/kbukum/isoclient/transport"
	"github.com/kbukum/isoclient/version"
)

func newRequestCommand(o *options, method string) *cobra.Command {
	var data string
	withBody := method == transport.MethodPost || method == transport.MethodPut
	use := strings.ToLower(method) + " <endpoint>"
	if withBody {
		use += " --data '<json>'"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, o, method, args[0], data)
		},
	}
	if withBody {
		cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	}
	return cmd
}

func runRequest(cmd *cobra.Command, o *options, method, endpoint, rawData string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	format, err := NewFormatter(o.output)
	if err != nil {
		return err
	}
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return err
	}
	body, err := parseData(rawData)
	if err != nil {
		return err
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, cmd.ErrOrStderr())
	logger.SetGlobalLogger(log)

	tel, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := tel.close(); cerr != nil {
			log.Warn("Telemetry shutdown failed", logger.ErrorFields("telemetry", cerr))
		}
	}()

	copts := []client.Option{client.WithLogger(log)}
	if tel.metrics != nil {
		copts = append(copts, client.WithMetrics(tel.metrics))
	}
	comp := client.NewComponent(cfg.Client, copts...)
	reg := component.NewRegistry()
	if err := reg.Register(comp); err != nil {
		return err
	}
	if err := reg.StartAll(ctx); err != nil {
		return err
	}
	defer func() {
		if serr := reg.StopAll(context.Background()); serr != nil && err == nil {
			err = serr
		}
	}()

	c := comp.Client()
	promReg := prometheus.NewRegistry()
	if err := installInterceptors(c, cfg, o, log, promReg); err != nil {
		return err
	}

	ropts := []client.RequestOption{client.WithHeaders(headers)}
	var resp *client.Response
	switch method {
	case transport.MethodGet:
		resp, err = c.Get(ctx, endpoint, ropts...)
	case transport.MethodDelete:
		resp, err = c.Delete(ctx, endpoint, ropts...)
	case transport.MethodPost:
		resp, err = c.Post(ctx, endpoint, body, ropts...)
	case transport.MethodPut:
		resp, err = c.Put(ctx, endpoint, body, ropts...)
	}
	if err != nil {
		return err
	}

	if err := format.Format(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	if o.metrics {
		if err := printCounters(cmd.ErrOrStderr(), promReg); err != nil {
			return err
		}
	}
	if resp.IsError() {
		if appErr, ok := errors.FromEnvelope(resp.Status, resp.Data); ok {
			return fmt.Errorf("%s %s: HTTP %d: %w", method, c.BaseURL()+endpoint, resp.Status, appErr)
		}
		return fmt.Errorf("%s %s: HTTP %d", method, c.BaseURL()+endpoint, resp.Status)
	}
	return nil
}

// installInterceptors adds the interceptors selected by flags and config.
// Request interceptors run in the order added, so logging sees the final
// request.
func installInterceptors(c *client.Client, cfg *Config, o *options, log *logger.Logger, reg *prometheus.Registry) error {
	c.AddRequestInterceptor(interceptors.StaticHeaders(map[string]string{
		"User-Agent": version.UserAgent(),
		"Accept":     "application/json",
	}))
	if o.requestID {
		c.AddRequestInterceptor(interceptors.RequestID(""))
	}
	if cfg.Signer.Secret != "" {
		bearer, err := interceptors.SignedBearer(cfg.Signer)
		if err != nil {
			return err
		}
		c.AddRequestInterceptor(bearer)
	}
	if o.metrics {
		p, err := interceptors.NewPrometheus(reg, serviceName)
		if err != nil {
			return err
		}
		c.AddRequestInterceptor(p.Requests())
		c.AddResponseInterceptor(p.Responses())
	}
	if o.verbose {
		c.AddRequestInterceptor(interceptors.LogRequests(log, cfg.RedactHeaders...))
		c.AddResponseInterceptor(interceptors.LogResponses(log, cfg.RedactHeaders...))
	}
	return nil
}

func parseData(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, errors.InvalidInput("data", "must be valid JSON").WithCause(err)
	}
	return v, nil
}
