// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
)

// PanicRecovery turns a handler panic into a 500 envelope and logs the stack.
// [http.ErrAbortHandler] is re-panicked so net/http can drop the connection.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				logger.ErrorContext(request.Context(), "panic_recovered",
					slog.String("request_id", ctxutil.GetRequestID(request.Context())),
					slog.String("path", request.URL.Path),
					slog.Any("error", recovered),
					slog.String("stack", string(debug.Stack())),
				)

				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}
