// Package domainerrors defines coded errors shared across the service.
//
// Domain errors carry a stable machine-readable code plus a human-readable
// message. Handlers translate codes to HTTP statuses via ToHTTPStatus; services
// and stores attach codes with New or Wrap and test for them with HasCode.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of domain error. Values double as the "error" field
// in JSON error envelopes, so they are stable identifiers, not display text.
type Code string

const (
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation_error"
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal_error"

	// CodeInvalidAge marks a passenger age outside the supported 0-150 range,
	// or a minor-rule invocation with an age above 17.
	CodeInvalidAge Code = "invalid_age"

	// CodeOutOfRange marks a ledger read for an index at or beyond the
	// requester's record count.
	CodeOutOfRange Code = "index_out_of_bounds"
)

// Error is the concrete domain error type.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/As.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of err, or CodeInternal when err is not a domain
// error. Unknown failures must never leak internals to callers.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeValidation, CodeBadRequest, CodeInvalidAge:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound, CodeOutOfRange:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
