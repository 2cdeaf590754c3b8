package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies high-level error categories for user-facing responses.
type Code string

const (
	CodeValidation   Code = "validation"
	CodeNotFound     Code = "not_found"
	CodeDuplicate    Code = "duplicate"
	CodeUnauthorized Code = "unauthorized"
	CodeBadMove      Code = "bad_move"
	CodeUnexpected   Code = "unexpected"
)

// Error is a small wrapper that carries a code and message while preserving
// the original cause via Unwrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	return humanize(e.Code, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

func humanize(code Code, cause error) string {
	switch code {
	case CodeValidation:
		return "invalid input"
	case CodeNotFound:
		return "record not found"
	case CodeDuplicate:
		return "record already exists"
	case CodeUnauthorized:
		return "authentication required"
	case CodeBadMove:
		return "move target out of range"
	default:
		if cause != nil {
			return fmt.Sprintf("unexpected error: %v", cause)
		}
		return "unexpected error"
	}
}

// CodeOf extracts the code from err, walking the wrap chain.
// Unknown errors classify as CodeUnexpected.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnexpected
}

// HTTPStatus maps an error code to the status the REST layer reports.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeBadMove:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicate:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
