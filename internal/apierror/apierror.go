// Package apierror defines the error taxonomy shared by all services and the
// standardized JSON envelope returned to clients. Every rejection carries a
// stable kind plus a human-readable reason; internal details (stack traces,
// SQL errors) never reach the response body.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and for callers that need to
// branch on the failure class (e.g. retry on Conflict).
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindValidation
	KindInvalidState
	KindConflict
	KindDependency
)

// Sub-reasons for Unauthenticated rejections.
const (
	AuthMissing      = "missing"
	AuthMalformed    = "malformed"
	AuthExpired      = "expired"
	AuthBadSignature = "bad-signature"
)

// Error is the typed error every service returns on rejection.
type Error struct {
	Kind   Kind
	Reason string // human-readable message, safe for clients
	Sub    string // optional sub-reason (auth failures)
}

func (e *Error) Error() string { return e.Reason }

// Status maps the kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidState:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Unauthenticated(sub, reason string) *Error {
	return &Error{Kind: KindUnauthenticated, Reason: reason, Sub: sub}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Reason: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Reason: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Reason: fmt.Sprintf(format, args...)}
}

func Dependency(format string, args ...interface{}) *Error {
	return &Error{Kind: KindDependency, Reason: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Sub    string `json:"sub_reason,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationFields wraps multiple field errors from request binding.
type ValidationFields struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidationFields(fields map[string]string) *ValidationFields {
	return &ValidationFields{Detail: "validation error", Fields: fields}
}
