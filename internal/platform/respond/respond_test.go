// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "score", Message: "Must be between 1 and 5"}))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, apperr.CodeValidation, body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "score", body.Details[0].Field)
}

func TestError_PlainErrorHidesCause(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "relation")
}

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Paginated(recorder, []string{"a", "b"}, pagination.NewMeta(1, 2, 5))

	var body struct {
		Data []string        `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, 3, body.Meta.TotalPages)
}
