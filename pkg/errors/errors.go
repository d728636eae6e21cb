// Package errors is the typed error taxonomy shared by services and the HTTP
// layer. Every code maps to exactly one HTTP status and public message.
package errors

import (
	stderrors "errors"
	"net/http"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeIncompleteAddress Code = "INCOMPLETE_ADDRESS"
	CodeEmptyCart         Code = "EMPTY_CART"
	CodeIdempotency       Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit         Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeDependency        Code = "DEPENDENCY_ERROR"
)

// Metadata is how a code is presented to API callers.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

const (
	final     = false
	retryable = true
	opaque    = false
	detailed  = true
)

var metadataByCode = map[Code]Metadata{
	CodeValidation:        {http.StatusBadRequest, final, "validation failed", detailed},
	CodeUnauthorized:      {http.StatusUnauthorized, final, "authentication required", opaque},
	CodeForbidden:         {http.StatusForbidden, final, "access denied", opaque},
	CodeNotFound:          {http.StatusNotFound, final, "resource not found", opaque},
	CodeConflict:          {http.StatusConflict, final, "conflict detected", opaque},
	CodeInvalidTransition: {http.StatusUnprocessableEntity, final, "status transition not allowed", detailed},
	CodeIncompleteAddress: {http.StatusBadRequest, final, "delivery address is incomplete", detailed},
	CodeEmptyCart:         {http.StatusBadRequest, final, "cart is empty", opaque},
	CodeIdempotency:       {http.StatusConflict, final, "idempotency key reused", detailed},
	CodeRateLimit:         {http.StatusTooManyRequests, final, "rate limit exceeded", opaque},
	CodeInternal:          {http.StatusInternalServerError, retryable, "internal server error", opaque},
	CodeDependency:        {http.StatusServiceUnavailable, retryable, "dependency unavailable", detailed},
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	meta, ok := metadataByCode[code]
	if !ok {
		return metadataByCode[CodeInternal]
	}
	return meta
}

// Error carries a code, an internal message, optional caller-facing details
// and the wrapped cause.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap is New with a cause. A nil err yields a plain New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// Code reports CodeInternal for a nil receiver.
func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches details in place and returns the receiver.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return string(e.code) + ": " + e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stderrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether the first *Error in err's chain has code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}
