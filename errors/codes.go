package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeInvalidInput indicates a request or configuration value is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeEncodeFailed indicates the request data could not be serialized to JSON.
	ErrCodeEncodeFailed ErrorCode = "ENCODE_FAILED"
	// ErrCodeDecodeFailed indicates response data does not fit the requested type.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
	// ErrCodeForbidden indicates a request was rejected for missing credentials.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Platform errors
const (
	// ErrCodeUnsupportedEnvironment indicates the host lacks a required capability,
	// such as a global fetch function.
	ErrCodeUnsupportedEnvironment ErrorCode = "UNSUPPORTED_ENVIRONMENT"
	// ErrCodeProviderUnavailable indicates no transport could be selected.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Nothing in the client retries; the flag only tells callers which failures
// are worth retrying on their side.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeProviderUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
