// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
)

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading manga: %w", apperr.NotFound("Manga"))

	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	assert.Equal(t, "Manga not found", appError.Message)
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeNotFound))
	assert.False(t, apperr.HasCode(errors.New("plain"), apperr.CodeNotFound))
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("connection reset by peer")
	appError := apperr.Internal(cause)

	assert.NotContains(t, appError.Error(), "connection reset")
	assert.ErrorIs(t, appError, cause)
}

func TestWithCause_DoesNotMutateShared(t *testing.T) {
	base := apperr.Unauthorized("Authentication required")
	withCause := base.WithCause(errors.New("expired"))

	assert.Nil(t, base.Cause)
	assert.NotNil(t, withCause.Cause)
}
