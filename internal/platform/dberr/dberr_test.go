// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
)

/*
TestWrapEntity_Mapping checks the SQLSTATE to AppError table.
*/
func TestWrapEntity_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no_rows", pgx.ErrNoRows, http.StatusNotFound, apperr.CodeNotFound},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, http.StatusConflict, apperr.CodeConflict},
		{"foreign_key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, http.StatusNotFound, apperr.CodeNotFound},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation}, http.StatusBadRequest, apperr.CodeValidation},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.WrapEntity(tt.err, "Manga", "get_manga"))
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

/*
TestIsUniqueViolation matches constraint names through wrapping layers.
*/
func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "account_slug_key"}
	wrapped := dberr.Wrap(fmt.Errorf("insert: %w", pgErr), "create_user")

	assert.True(t, dberr.IsUniqueViolation(wrapped, "account_slug_key"))
	assert.True(t, dberr.IsUniqueViolation(wrapped, ""))
	assert.False(t, dberr.IsUniqueViolation(wrapped, "account_username_key"))
	assert.Equal(t, "account_slug_key", dberr.ConstraintName(wrapped))

	assert.False(t, dberr.IsUniqueViolation(errors.New("plain"), ""))
}
