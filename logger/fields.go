package logger

import "time"

// Field keys shared by isoclient log events.
const (
	FieldComponent = "component"
	FieldTransport = "transport"
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldEndpoint  = "endpoint"
	FieldStatus    = "status"
	FieldRequestID = "request_id"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields pairs up alternating keys and values. A non-string key drops its
// pair, and a trailing key without a value is ignored.
//
//	log.Debug("Dispatched", logger.Fields(logger.FieldMethod, "GET", logger.FieldStatus, 200))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields describes a failed operation.
func ErrorFields(op string, err error) map[string]interface{} {
	return Fields(FieldOperation, op, FieldError, err.Error())
}

// DurationFields describes a timed operation in whole milliseconds.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return Fields(FieldOperation, op, FieldDuration, d.Milliseconds())
}
