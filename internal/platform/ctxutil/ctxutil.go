// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores the per-request values the middleware chain
// produces: request ID, scoped logger and authenticated principal.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangashelf/internal/platform/sec"
)

type (
	requestIDKey struct{}
	loggerKey    struct{}
	principalKey struct{}
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger falls back to [slog.Default], so callers never nil-check.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, principalKey{}, claims)
}

// GetAuthUser returns nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(principalKey{}).(*sec.AuthClaims)
	return claims
}

// GetActor is the service-facing view of [GetAuthUser].
func GetActor(ctx context.Context) (sec.Actor, bool) {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.Actor(), true
	}
	return sec.Actor{}, false
}
