// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Postgres reports constraint failures through SQLSTATE codes. Repositories
// use [Wrap] for the common mapping and the Is* helpers when a particular
// constraint needs its own message or triggers a retry in the service layer.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
)

// Wrap inspects a database error and converts it into an [apperr.AppError].
//
// Mapping:
//   - pgx.ErrNoRows           -> 404 NOT_FOUND ("Resource not found")
//   - 23505 unique_violation  -> 409 CONFLICT
//   - 23503 foreign_key       -> 404 NOT_FOUND (referenced row missing)
//   - 23514 check_violation   -> 400 VALIDATION_ERROR
//   - anything else           -> 500 INTERNAL_ERROR
//
// Errors that already are [*apperr.AppError] pass through unchanged.
func Wrap(err error, action string) error {
	return WrapEntity(err, "Resource", action)
}

// WrapEntity behaves like [Wrap] but names the resource in NOT_FOUND messages.
func WrapEntity(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if ae := apperr.As(err); ae != nil {
		return ae
	}

	// 1. Missing row
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violations carry a SQLSTATE
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource+" already exists").WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.NotFound("Referenced resource").WithCause(err)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return apperr.ValidationError("Invalid " + resource).WithCause(err)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a unique_violation. When constraint
// is non-empty the violated constraint name must match as well.
func IsUniqueViolation(err error, constraint string) bool {
	return hasCode(err, pgerrcode.UniqueViolation, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign_key_violation,
// optionally restricted to one constraint.
func IsForeignKeyViolation(err error, constraint string) bool {
	return hasCode(err, pgerrcode.ForeignKeyViolation, constraint)
}

// ConstraintName returns the constraint reported by Postgres, or "".
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func hasCode(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
