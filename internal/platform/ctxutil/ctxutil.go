// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores the per-request correlation ID and logger in a
// [context.Context].
//
// Keys are values of an unexported type, so only this package can read or
// overwrite them.
package ctxutil

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	loggerKey
	clientIPKey
)

// # Request Tracing

// WithRequestID returns a copy of ctx carrying the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// # Structured Logging

// WithClientIP stores the resolved client address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the resolved client address, or "" when unset.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// WithLogger returns a copy of ctx carrying a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request logger, or [slog.Default] when none is attached.
func GetLogger(ctx context.Context) *slog.Logger {
	return LoggerOr(ctx, nil)
}

// LoggerOr returns the request logger if one is attached, otherwise fallback.
//
// Services hold a process logger; inside a request they prefer the enriched one
// so log lines carry the request id.
func LoggerOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
