package interceptors

import (
	"context"
	"strings"

	"github.com/kbukum/isoclient/logger"
	"github.com/kbukum/isoclient/transport"
)

// Redacted replaces masked header values in log output.
const Redacted = "[REDACTED]"

var alwaysRedacted = []string{"x-csrf-token", "authorization"}

// LogRequests logs each outgoing request at debug level. Values of the
// headers named in redact are masked, as are X-CSRF-Token and Authorization.
func LogRequests(log *logger.Logger, redact ...string) Request {
	mask := redactSet(redact)
	return func(_ context.Context, rc *transport.RequestConfig) (*transport.RequestConfig, error) {
		fields := logger.Fields(
			logger.FieldMethod, rc.Method,
			logger.FieldEndpoint, rc.Endpoint,
			"headers", redactHeaders(rc.Headers, mask),
			"has_body", rc.HasBody(),
		)
		if id, ok := lookup(rc.Headers, DefaultRequestIDHeader); ok {
			fields[logger.FieldRequestID] = id
		}
		log.Debug("Request", fields)
		return rc, nil
	}
}

// LogResponses logs each response at debug level, or warn for 4xx and 5xx.
func LogResponses(log *logger.Logger, redact ...string) Response {
	mask := redactSet(redact)
	return func(_ context.Context, r *transport.Response) (*transport.Response, error) {
		fields := logger.Fields(
			logger.FieldStatus, r.Status,
			"headers", redactHeaders(r.Headers, mask),
			"bytes", len(r.Raw),
		)
		if r.IsError() {
			log.Warn("Response", fields)
		} else {
			log.Debug("Response", fields)
		}
		return r, nil
	}
}

func redactSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names)+len(alwaysRedacted))
	for _, n := range alwaysRedacted {
		set[n] = struct{}{}
	}
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

// redactHeaders returns a masked copy; the input is not modified.
func redactHeaders(headers map[string]string, mask map[string]struct{}) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if _, hidden := mask[strings.ToLower(k)]; hidden {
			v = Redacted
		}
		out[k] = v
	}
	return out
}
