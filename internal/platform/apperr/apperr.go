// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type that leaves the service layer.

Architecture:

  - AppError: machine-readable Code plus a client-safe Message.
  - Mapping: every AppError carries the HTTP status it is rendered with.
  - Cause: the wrapped low-level error, logged server-side only.

Repositories (memory or Postgres) and services return [*AppError] values so the
HTTP layer never has to guess how a failure should be presented.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeValidation = "VALIDATION_ERROR"
	CodeInternal   = "INTERNAL_ERROR"

	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "TOO_MANY_REQUESTS"
)

// AppError is the canonical error type of the service.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Artist") // Returns "Artist not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// MethodNotAllowed creates a 405 [AppError] for a known path hit with the wrong verb.
func MethodNotAllowed(method string) *AppError {
	return &AppError{
		Code:       CodeMethodNotAllowed,
		Message:    "Method " + method + " is not allowed on this route",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited() *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    "Rate limit exceeded",
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsNotFound reports whether err is a NOT_FOUND [*AppError].
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
