// Package dErrors defines coded domain errors shared by services and transports.
//
// Services return these codes; transports translate them into status codes.
// Infrastructure layers return pkg/platform/sentinel errors instead and let
// the owning service decide what they mean.
package dErrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	CodeBadRequest  Code = "bad_request"
	CodeValidation  Code = "validation_error"
	CodeNotFound    Code = "not_found"
	CodeConflict    Code = "conflict"
	CodeUpstream    Code = "upstream_error"
	CodeDelivery    Code = "delivery_error"
	CodePersistence Code = "persistence_error"
	CodeInternal    Code = "internal_error"
)

// Error is a domain error carrying a code, a client-safe message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
// Returns nil when err is nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// Is reports whether err is a domain error.
func Is(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

// As returns the outermost domain error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost domain error in err's chain has the given code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// CodeOf returns the code of err, or CodeInternal for non-domain errors.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the client-safe message of err. Non-domain errors
// yield a generic message so internal details are not leaked.
func MessageOf(err error) string {
	if de, ok := As(err); ok {
		return de.Message
	}
	return "internal server error"
}

// IsClientFault reports whether the error was caused by the caller's input.
func IsClientFault(err error) bool {
	switch CodeOf(err) {
	case CodeBadRequest, CodeValidation, CodeNotFound, CodeConflict:
		return true
	}
	return false
}

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
