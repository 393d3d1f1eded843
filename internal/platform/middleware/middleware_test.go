// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/internal/platform/middleware"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
}

func (v stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return v.claims, nil
}

func chain(handler http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}

/*
TestAuthenticate covers anonymous, malformed, invalid and valid headers.
*/
func TestAuthenticate(t *testing.T) {
	verifier := stubVerifier{claims: &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleMember)}}

	var seen *sec.AuthClaims
	handler := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetAuthUser(r.Context())
		w.WriteHeader(http.StatusOK)
	}), middleware.Authenticate(verifier))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   bool
	}{
		{"anonymous", "", http.StatusOK, false},
		{"malformed", "Token good", http.StatusUnauthorized, false},
		{"invalid", "Bearer bad", http.StatusUnauthorized, false},
		{"valid", "Bearer good", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantUser, seen != nil)
		})
	}
}

/*
TestRequireRole verifies the role hierarchy gate.
*/
func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	gate := middleware.RequireRole(sec.RoleEditor)(ok)

	tests := []struct {
		name   string
		claims *sec.AuthClaims
		want   int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"member", &sec.AuthClaims{UserID: "u", Role: "member"}, http.StatusForbidden},
		{"editor", &sec.AuthClaims{UserID: "u", Role: "editor"}, http.StatusNoContent},
		{"admin", &sec.AuthClaims{UserID: "u", Role: "admin"}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.claims))
			}
			recorder := httptest.NewRecorder()
			gate.ServeHTTP(recorder, request)
			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}

/*
TestRateLimitWith rejects requests once the bucket is drained.
*/
func TestRateLimitWith(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimitWith(ctx, 0.0001, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:5555"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestID_EchoesHeader(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetRequestID(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", recorder.Header().Get("X-Request-ID"))
}

func TestRateLimitWith_RetryAfter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimitWith(ctx, 0.5, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	var last *httptest.ResponseRecorder
	for range 2 {
		request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, request)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "2", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), `"code":"RATE_LIMITED"`)
}

type corsConfig struct {
	dev    bool
	suffix string
}

func (c corsConfig) IsDevelopment() bool  { return c.dev }
func (c corsConfig) OriginSuffix() string { return c.suffix }

/*
TestCORS checks origin matching on host boundaries and preflight handling.
*/
func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name    string
		cfg     corsConfig
		method  string
		origin  string
		allowed bool
		status  int
	}{
		{"development", corsConfig{dev: true}, http.MethodGet, "http://localhost:3000", true, http.StatusOK},
		{"apex", corsConfig{suffix: "mangashelf.app"}, http.MethodGet, "https://mangashelf.app", true, http.StatusOK},
		{"subdomain", corsConfig{suffix: "mangashelf.app"}, http.MethodGet, "https://www.mangashelf.app", true, http.StatusOK},
		{"lookalike", corsConfig{suffix: "mangashelf.app"}, http.MethodGet, "https://evilmangashelf.app", false, http.StatusOK},
		{"preflight", corsConfig{suffix: "mangashelf.app"}, http.MethodOptions, "https://mangashelf.app", true, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, "/", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()

			middleware.CORS(tt.cfg)(next).ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.allowed, recorder.Header().Get("Access-Control-Allow-Origin") == tt.origin)
		})
	}
}

func TestPanicRecovery_WritesEnvelope(t *testing.T) {
	handler := middleware.PanicRecovery(slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }),
	)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:4000"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", " 198.51.100.2 , 10.0.0.1")
	assert.Equal(t, "198.51.100.2", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.9")
	assert.Equal(t, "198.51.100.9", middleware.RealIP(request))
}
