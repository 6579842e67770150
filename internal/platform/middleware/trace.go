// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/artverify/internal/platform/constants"
	"github.com/taibuivan/artverify/internal/platform/ctxutil"
)

// maxClientRequestIDLen bounds client-supplied IDs before they reach the logs.
const maxClientRequestIDLen = 128

// # Request Tracing

// RequestID attaches a correlation ID to every request.
//
// A client-supplied X-Request-ID is kept when it is non-empty and short
// enough; otherwise a time-sortable UUID v7 is generated.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" || len(requestID) > maxClientRequestIDLen {
				requestID = newRequestID()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			ctx := ctxutil.WithRequestID(request.Context(), requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// # Activity Logging

// statusRecorder captures what the handler wrote for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *statusRecorder) Write(body []byte) (int, error) {
	n, err := recorder.ResponseWriter.Write(body)
	recorder.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (recorder *statusRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

// StructuredLogger injects a request-scoped logger into the context and
// writes one access log line per request. 4xx log at warn, 5xx at error.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", clientIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= 500:
				level = slog.LevelError
			case recorder.status >= 400:
				level = slog.LevelWarn
			}

			requestLogger.Log(ctx, level, "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int("bytes", recorder.bytes),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}
