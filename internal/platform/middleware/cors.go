// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/mangashelf/internal/platform/constants"
)

// AppConfig is the slice of configuration CORS needs.
type AppConfig interface {
	IsDevelopment() bool
	OriginSuffix() string
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Methods":     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	"Access-Control-Allow-Headers":     "Accept, Content-Type, Content-Length, Authorization, X-Request-ID",
	"Access-Control-Expose-Headers":    "Content-Length, X-Request-ID, Retry-After",
	"Access-Control-Allow-Credentials": "true",
	"Access-Control-Max-Age":           "300",
}

// CORS reflects allowed origins back to the browser. Development accepts any
// origin; otherwise the origin host must end with the configured suffix.
// Preflight requests are answered with 204 and never reach the router.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if originAllowed(cfg, origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Add("Vary", constants.HeaderOrigin)
				for name, value := range corsHeaders {
					header.Set(name, value)
				}
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	suffix := strings.TrimPrefix(cfg.OriginSuffix(), ".")
	if suffix == "" {
		return false
	}

	host := origin
	if _, rest, found := strings.Cut(origin, "://"); found {
		host = rest
	}
	host, _, _ = strings.Cut(host, ":")
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}
