// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"promptcraft-studio/internal/common/config"
	"promptcraft-studio/internal/common/logger"
)

// NewRouter mounts the probes, /metrics and the /api subrouter with request
// ID, CORS and access-log middleware.
func NewRouter(h *Handler, allowedOrigins []string, log logger.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessMiddleware(log))

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(corsMiddleware(allowedOrigins))
	// Preflight catch-all, registered first and matched without Methods so
	// unknown paths stay 404 and known paths with a wrong method stay 405.
	apiRouter.PathPrefix("/").MatcherFunc(isPreflight).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h.RegisterRoutes(apiRouter)

	return r
}

func isPreflight(r *http.Request, _ *mux.RouteMatch) bool {
	return r.Method == http.MethodOptions
}

// Server wraps http.Server with the configured timeouts.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          logger.Logger
}

func NewServer(cfg config.ServerConfig, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Address,
			Handler:           handler,
			ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      config.GetDuration(cfg.WriteTimeout),
			IdleTimeout:       120 * time.Second,
		},
		shutdownTimeout: config.GetDuration(cfg.ShutdownTimeout),
		logger:          log,
	}
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones up to the
// configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}
	return s.httpServer.Shutdown(ctx)
}
