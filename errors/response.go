package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON envelope an AppError is served in:
//
//	{"error": {"code": "NOT_FOUND", "message": "...", "retryable": false}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the payload of an ErrorResponse.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse wraps e in the served envelope.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}

// FromEnvelope rebuilds an AppError from a decoded response body. data is
// the generic JSON value a transport produced, so only a map holding an
// "error" object with a string "code" qualifies; anything else returns
// false.
func FromEnvelope(status int, data any) (*AppError, bool) {
	root, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}
	body, ok := root["error"].(map[string]any)
	if !ok {
		return nil, false
	}
	code, ok := body["code"].(string)
	if !ok || code == "" {
		return nil, false
	}

	appErr := &AppError{Code: ErrorCode(code), HTTPStatus: status}
	appErr.Message, _ = body["message"].(string)
	if appErr.Message == "" {
		appErr.Message = http.StatusText(status)
	}
	appErr.Retryable, _ = body["retryable"].(bool)
	appErr.Details, _ = body["details"].(map[string]any)
	return appErr, true
}

// IsAppError reports whether err is, or wraps, an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError returns the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
