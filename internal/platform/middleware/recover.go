// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/taibuivan/artverify/internal/platform/apperr"
	"github.com/taibuivan/artverify/internal/platform/ctxutil"
	"github.com/taibuivan/artverify/internal/platform/respond"
)

// # Reliability & Safety

// PanicRecovery logs a recovered panic with its stack and answers 500.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func PanicRecovery() func(http.Handler) http.Handler {
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

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(debug.Stack())),
				)

				writeError(writer, apperr.Internal(nil))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// writeError renders the handler error envelope without the 5xx logging done
// by respond.Error, since middleware has already logged.
func writeError(writer http.ResponseWriter, appError *apperr.AppError) {
	respond.JSON(writer, appError.HTTPStatus, respond.ErrorEnvelope{Error: appError.Message, Code: appError.Code})
}
