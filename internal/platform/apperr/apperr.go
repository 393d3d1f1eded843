// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type shared by every layer of the catalogue API.

Services return [*AppError] values, or plain errors which become 500s, and
the respond package renders them as the JSON error envelope.

Codes in use:

  - VALIDATION_ERROR: client-fixable input, carries per-field details
  - CONFLICT: a unique key is already taken
  - NOT_FOUND: the referenced manga, chapter, user or row does not exist
  - NOTHING_TO_SELECT: a random pick was requested from an empty pool
  - UNAUTHORIZED, FORBIDDEN: identity and ownership failures
  - RATE_LIMITED: the client bucket is empty
  - INTERNAL_ERROR: anything else
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Codes

const (
	CodeNotFound        = "NOT_FOUND"
	CodeNothingToSelect = "NOTHING_TO_SELECT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError carries a client-safe message, the status it maps to and an
// optional cause that only ever reaches the server log.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e that remembers cause for logging.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func build(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Constructors

// NotFound reports that resource does not exist, e.g. NotFound("Manga")
// reads "Manga not found".
func NotFound(resource string) *AppError {
	return build(CodeNotFound, http.StatusNotFound, resource+" not found")
}

// NothingToSelect is a 404 for a valid request whose candidate pool is
// empty, such as a random manga on an empty catalogue.
func NothingToSelect(resource string) *AppError {
	return build(CodeNothingToSelect, http.StatusNotFound, fmt.Sprintf("No %s available to select from", resource))
}

func Unauthorized(msg string) *AppError {
	return build(CodeUnauthorized, http.StatusUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return build(CodeForbidden, http.StatusForbidden, msg)
}

// Conflict is returned when a unique key (slug, email, username, name) is
// already taken.
func Conflict(msg string) *AppError {
	return build(CodeConflict, http.StatusConflict, msg)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	appError := build(CodeValidation, http.StatusBadRequest, msg)
	appError.Details = details
	return appError
}

func RateLimited(retryAfterSeconds int) *AppError {
	return build(CodeRateLimited, http.StatusTooManyRequests, fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// Internal hides cause behind a generic 500 message.
func Internal(cause error) *AppError {
	return build(CodeInternal, http.StatusInternalServerError, "An unexpected error occurred").WithCause(cause)
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// HasCode reports whether err's chain carries an [*AppError] with code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}
