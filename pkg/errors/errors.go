// Package errors defines the coded error type shared by every buildexcluder
// package. Codes are stable strings; tests and the JSON output match on them
// instead of on message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an ExcluderError.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Rules file and configuration
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrConfigSave  ErrorCode = "CONFIG_SAVE"

	// Relocation
	ErrInvalidPath   ErrorCode = "INVALID_PATH"
	ErrConflict      ErrorCode = "CONFLICT"
	ErrSourceMissing ErrorCode = "SOURCE_MISSING"
	ErrMoveFailed    ErrorCode = "MOVE_FAILED"

	ErrSessionStore  ErrorCode = "SESSION_STORE"
	ErrDefinesSource ErrorCode = "DEFINES_SOURCE"
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"
)

// ExcluderError carries a code, a human message, optional structured
// details and the cause it wraps.
type ExcluderError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func build(code ErrorCode, message string, cause error) *ExcluderError {
	return &ExcluderError{
		Code:    code,
		Message: message,
		Details: map[string]interface{}{},
		Wrapped: cause,
	}
}

func (e *ExcluderError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
}

func (e *ExcluderError) Unwrap() error {
	return e.Wrapped
}

// WithDetail records key on the error and returns it for chaining.
func (e *ExcluderError) WithDetail(key string, value interface{}) *ExcluderError {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

func New(code ErrorCode, message string) *ExcluderError {
	return build(code, message, nil)
}

func Newf(code ErrorCode, format string, args ...interface{}) *ExcluderError {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap returns nil for a nil err. The result is a typed nil, so callers
// returning it as error must check err first.
func Wrap(err error, code ErrorCode, message string) *ExcluderError {
	if err == nil {
		return nil
	}
	return build(code, message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ExcluderError {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

func find(err error) (*ExcluderError, bool) {
	var exErr *ExcluderError
	ok := errors.As(err, &exErr)
	return exErr, ok
}

// IsErrorCode reports whether the outermost ExcluderError in err's chain
// has code.
func IsErrorCode(err error, code ErrorCode) bool {
	exErr, ok := find(err)
	return ok && exErr.Code == code
}

// GetErrorCode returns err's code, or ErrUnknown for foreign errors.
func GetErrorCode(err error) ErrorCode {
	if exErr, ok := find(err); ok {
		return exErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns err's details, or nil for foreign errors.
func GetErrorDetails(err error) map[string]interface{} {
	if exErr, ok := find(err); ok {
		return exErr.Details
	}
	return nil
}

// Message returns an ExcluderError's message without its code prefix or
// wrapped cause. Other errors return their full text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if exErr, ok := find(err); ok {
		return exErr.Message
	}
	return err.Error()
}
