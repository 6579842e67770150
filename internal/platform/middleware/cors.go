// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/artverify/internal/platform/constants"
)

// # Cross-Origin Resource Sharing

// AppConfig is the slice of configuration the CORS policy reads.
type AppConfig interface {
	IsDevelopment() bool
	OriginSuffix() string
}

// CORS allows any origin in development. Elsewhere the origin must end with
// the configured suffix; an empty suffix allows none.
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
				header.Add("Vary", constants.HeaderOrigin)
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID, Retry-After")
				header.Set("Access-Control-Max-Age", "300")
			}

			// Pre-flight requests end here
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
	suffix := cfg.OriginSuffix()
	return suffix != "" && strings.HasSuffix(origin, suffix)
}
