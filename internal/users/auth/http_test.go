// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/users/auth"
)

func refreshCookie(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.RefreshTokenCookieName {
			return cookie
		}
	}
	return nil
}

/*
TestHandler_CookieFlow logs in, rotates the refresh cookie and logs out.
*/
func TestHandler_CookieFlow(t *testing.T) {
	f := newFixture(t)
	router := auth.NewHandler(f.service).Routes()

	request := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"login": "alice", "password": "correct horse"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)

	cookie := refreshCookie(recorder)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	request = httptest.NewRequest(http.MethodPost, "/refresh", nil)
	request.AddCookie(cookie)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	rotated := refreshCookie(recorder)
	require.NotNil(t, rotated)
	assert.NotEqual(t, cookie.Value, rotated.Value)

	request = httptest.NewRequest(http.MethodPost, "/refresh", nil)
	request.AddCookie(cookie)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request = httptest.NewRequest(http.MethodPost, "/logout", nil)
	request.AddCookie(rotated)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, f.sessions.sessions)
}

/*
TestHandler_LoginValidation rejects empty credentials before authenticating.
*/
func TestHandler_LoginValidation(t *testing.T) {
	f := newFixture(t)
	router := auth.NewHandler(f.service).Routes()

	request := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"login": ""}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
