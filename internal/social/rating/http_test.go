// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/social/rating"
)

func newRouter() chi.Router {
	service, _ := newService()
	router := chi.NewRouter()
	router.Mount("/manga/{slug}/rating", rating.NewHandler(service).Routes())
	return router
}

func put(router http.Handler, target, body string, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Submit checks the status codes of the rating endpoint.
*/
func TestHandler_Submit(t *testing.T) {
	router := newRouter()
	claims := &sec.AuthClaims{UserID: "alice", Role: string(sec.RoleMember)}

	recorder := put(router, "/manga/test_english/rating/me", `{"score": 4}`, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = put(router, "/manga/test_english/rating/me", `{"score": 4}`, claims)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	recorder = put(router, "/manga/test_english/rating/me", `{"score": 2}`, claims)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data rating.Rating `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.Equal(t, 2, envelope.Data.Score)

	recorder = put(router, "/manga/test_english/rating/me", `{"score": 9}`, claims)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = put(router, "/manga/missing/rating/me", `{"score": 3}`, claims)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
