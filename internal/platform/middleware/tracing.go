// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// RequestID echoes the caller's X-Request-ID or mints a fresh one, and
// stores it in the context for the logger.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			id := request.Header.Get(constants.HeaderXRequestID)
			if id == "" {
				id = uuid.New()
			}
			writer.Header().Set(constants.HeaderXRequestID, id)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), id)))
		})
	}
}

// responseTrap remembers the status and size of what the handler wrote.
type responseTrap struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (trap *responseTrap) WriteHeader(code int) {
	if trap.status == 0 {
		trap.status = code
	}
	trap.ResponseWriter.WriteHeader(code)
}

func (trap *responseTrap) Write(body []byte) (int, error) {
	if trap.status == 0 {
		trap.status = http.StatusOK
	}
	n, err := trap.ResponseWriter.Write(body)
	trap.bytes += n
	return n, err
}

// Unwrap lets [http.ResponseController] reach the underlying writer.
func (trap *responseTrap) Unwrap() http.ResponseWriter { return trap.ResponseWriter }

/*
StructuredLogger scopes a logger to the request and logs one line when the
handler returns.

The scoped logger carries request_id, method, path and ip, and is what
[ctxutil.GetLogger] hands to services further down. The closing line is
logged at error level for 5xx and warn for 4xx.

Parameters:
  - logger: *slog.Logger

Returns:
  - func(http.Handler) http.Handler
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()

			scoped := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)
			ctx := ctxutil.WithLogger(request.Context(), scoped)

			trap := &responseTrap{ResponseWriter: writer}
			next.ServeHTTP(trap, request.WithContext(ctx))

			if trap.status == 0 {
				trap.status = http.StatusOK
			}

			scoped.Log(ctx, levelFor(trap.status), "http_request_finished",
				slog.Int("status", trap.status),
				slog.Int("bytes", trap.bytes),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// RealIP returns the client address, preferring X-Real-IP and then the first
// hop of X-Forwarded-For over the socket peer.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
