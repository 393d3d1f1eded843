// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level input errors and reports them as a
// single VALIDATION_ERROR.
//
// A Validator is built per call and is not safe for concurrent use:
//
//	err := (&validate.Validator{}).
//		Required("title", input.Title).
//		MaxLen("title", input.Title, 500).
//		Err()
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
)

const failedMessage = "Validation failed"

var (
	// Lowercase words of letters, digits and underscores joined by single hyphens.
	slugPattern = regexp.MustCompile(`^[a-z0-9_]+(?:-[a-z0-9_]+)*$`)

	canonicalKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator accumulates failures; [Validator.Err] turns them into an error.
type Validator struct {
	failures []apperr.FieldError
}

// check records message against field unless ok holds.
func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "This field is required")
}

// MaxLen and MinLen count runes, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(utf8.RuneCountInString(value) <= max, field, fmt.Sprintf("Maximum %d characters", max))
}

func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(utf8.RuneCountInString(value) >= min, field, fmt.Sprintf("Minimum %d characters", min))
}

// Range is inclusive on both ends.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.check(value >= min && value <= max, field, fmt.Sprintf("Must be between %d and %d", min, max))
}

func (v *Validator) Positive(field string, value int) *Validator {
	return v.check(value > 0, field, "Must be a positive integer")
}

// Email accepts a bare address only; display-name forms are rejected.
func (v *Validator) Email(field, value string) *Validator {
	parsed, err := mail.ParseAddress(value)
	return v.check(err == nil && parsed.Address == value, field, "Must be a valid email address")
}

// Slug rejects leading, trailing and doubled hyphens as well as uppercase.
func (v *Validator) Slug(field, value string) *Validator {
	return v.check(slugPattern.MatchString(value), field,
		"Must be a valid URL slug (lowercase letters, digits, underscores, hyphens)")
}

// CanonicalKey allows ASCII letters, digits, underscores and hyphens.
func (v *Validator) CanonicalKey(field, value string) *Validator {
	return v.check(canonicalKeyPattern.MatchString(value), field,
		"Must contain only letters, digits, underscores and hyphens")
}

// URL requires an absolute http or https URL with a host.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.ParseRequestURI(value)
	ok := err == nil && parsed.Host != "" && (parsed.Scheme == "http" || parsed.Scheme == "https")
	return v.check(ok, field, "Must be a valid http(s) URL")
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(slices.Contains(allowed, value), field, "Must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(!failed, field, message)
}

func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// Err returns nil when every rule passed.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError(failedMessage, v.failures...)
}

// RequiredError builds a validation error for a single field.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(failedMessage, apperr.FieldError{Field: field, Message: message})
}
