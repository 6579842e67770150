// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/artverify/internal/platform/constants"
	"github.com/taibuivan/artverify/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
// A nil checker is skipped.
type HealthDependencies struct {
	// CheckStore pings the PostgreSQL pool. Nil for the in-memory store.
	CheckStore func(ctx context.Context) error

	// CheckCache pings the Redis client. Nil when no cache is configured.
	CheckCache func(ctx context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 2)
	isSystemReady := true

	probes := []struct {
		name  string
		check func(ctx context.Context) error
	}{
		{"store", handler.dependencies.CheckStore},
		{"cache", handler.dependencies.CheckCache},
	}

	for _, probe := range probes {
		if probe.check == nil {
			continue
		}

		result := checkResult{Name: probe.name, IsOK: true}
		if err := probe.check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", probe.name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: responseStatus,
		constants.FieldChecks: results,
	}})
}
