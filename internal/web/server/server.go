// Package server wraps the stdlib HTTP server with the daemon's timeouts
// and lifecycle logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Ondalf/spothinta/internal/infrastructure/logging"
)

// Server owns the HTTP listener lifecycle.
type Server struct {
	httpServer *http.Server
	port       int
}

// NewServer builds a server around the router with bounded timeouts. The
// write timeout does not apply to hijacked stream connections.
func NewServer(handler http.Handler, port int) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		port: port,
	}
}

// Start blocks serving requests until Stop or a listener error.
func (s *Server) Start() error {
	logging.Info(context.Background(), "HTTP server starting", logging.Fields{
		"port": s.port,
		"endpoints": []string{
			"GET  /health",
			"GET  /metrics",
			"GET  /api/v1/price",
			"GET  /api/v1/prices",
			"GET  /api/v1/aggregates",
			"GET  /api/v1/regions",
			"POST /api/v1/refresh",
			"GET  /api/v1/stream (websocket)",
			"GET  /swagger/index.html",
		},
	})

	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	logging.Info(ctx, "HTTP server shutting down", logging.Fields{
		"port": s.port,
	})
	return s.httpServer.Shutdown(ctx)
}
