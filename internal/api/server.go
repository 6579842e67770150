// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the chi router, the middleware chain and the artist
handlers into a runnable [http.Server], plus the /health and /ready probes.
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/artverify/internal/core/artist"
	"github.com/taibuivan/artverify/internal/platform/apperr"
	"github.com/taibuivan/artverify/internal/platform/config"
	"github.com/taibuivan/artverify/internal/platform/constants"
	"github.com/taibuivan/artverify/internal/platform/middleware"
	"github.com/taibuivan/artverify/internal/platform/respond"
)

// # Server Definitions

// Server owns the router and the [http.Server] built once in main.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the HTTP handler sets mounted by the server.
type Handlers struct {
	// Liveness answers /health while the process is alive.
	Liveness http.HandlerFunc

	// Readiness answers /ready once the store and cache respond.
	Readiness http.HandlerFunc

	Artist *artist.Handler
}

/*
NewServer builds the router, its middleware chain and the route groups.

The context bounds background middleware work such as the rate limiter
sweep. Unknown routes and wrong verbs answer with the JSON error envelope.
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, handlers Handlers) *Server {
	router := chi.NewRouter()

	// # Middleware Chain
	router.Use(middleware.RequestID())
	router.Use(middleware.ClientIP(cfg.TrustedProxies))
	router.Use(middleware.StructuredLogger(log))
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	router.Use(middleware.PanicRecovery())
	router.Use(middleware.CORS(cfg))
	router.Use(chimw.CleanPath)

	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.MethodNotAllowed(request.Method))
	})

	// # Infrastructure Endpoints
	router.Get("/health", handlers.Liveness)
	router.Get("/ready", handlers.Readiness)

	// # Artist API
	router.Mount("/api/v1", handlers.Artist.Routes())

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

// Handler exposes the wired router to tests.
func (server *Server) Handler() http.Handler {
	return server.router
}

// # Server Lifecycle

/*
Run serves until the context is cancelled or the listener fails, then drains
in-flight requests for at most shutdownTimeout.

Returns:
  - nil after a clean drain
  - error: Listener failure or an expired drain
*/
func (server *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		server.log.Info("server_starting", slog.String("addr", server.httpServer.Addr))
		if err := server.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, failed := <-serveErr:
		if failed {
			return fmt.Errorf("server_listen_failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	server.log.Info("server_draining", slog.Duration("timeout", shutdownTimeout))

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.httpServer.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("server_shutdown_failed: %w", err)
	}

	server.log.Info("server_stopped")
	return nil
}

