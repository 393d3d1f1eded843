// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
)

// TokenVerifier turns a bearer token into the principal it was issued to.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

var errAuthRequired = apperr.Unauthorized("Authentication required")

// bearer pulls the token out of an Authorization header. An empty header is
// not an error: the caller is simply anonymous.
func bearer(header string) (token string, present bool, err error) {
	if header == "" {
		return "", false, nil
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", true, apperr.Unauthorized("Invalid authorization format")
	}
	return strings.TrimSpace(token), true, nil
}

/*
Authenticate resolves the acting principal from the Authorization header.

Anonymous requests pass through untouched so public catalogue routes keep
working. A header that is present but malformed, or a token that fails
verification, ends the request with 401.

On success the claims and a logger tagged with user_id are put in the
context.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, present, err := bearer(request.Header.Get("Authorization"))
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if !present {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token").WithCause(err))
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(
				slog.String("user_id", claims.UserID),
				slog.String("role", claims.Role),
			))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests. It must run after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, errAuthRequired)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole admits principals ranked at or above role, so an admin passes
// an editor gate.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}
			next.ServeHTTP(writer, request)
		}))
	}
}
