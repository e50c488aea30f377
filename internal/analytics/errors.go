package analytics

import "errors"

// ErrorCode classifies engine errors for callers that map them onto a
// transport (typically HTTP status codes).
type ErrorCode string

const (
	ErrorInvalid  ErrorCode = "invalid"
	ErrorNotFound ErrorCode = "not_found"
)

// EngineError is a caller-facing error with a stable code. Empty-data
// conditions never produce one; they resolve to neutral values instead.
type EngineError struct {
	Code    ErrorCode
	Message string
}

func (e *EngineError) Error() string { return e.Message }

// NewInvalidError reports a caller-contract violation, such as requesting
// participation metrics for an empty group.
func NewInvalidError(msg string) error { return &EngineError{Code: ErrorInvalid, Message: msg} }

// NewNotFoundError reports a missing aggregate, such as an unknown survey id.
func NewNotFoundError(msg string) error { return &EngineError{Code: ErrorNotFound, Message: msg} }

// AsEngineError unwraps err into an EngineError when possible.
func AsEngineError(err error) (*EngineError, bool) {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
