package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/log"
)

// Server wraps the HTTP server around a configured gin engine.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a server serving the given engine on the configured
// address.
func New(cfg *config.Config, router *gin.Engine) *Server {
	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks serving requests until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	log.Info(context.Background(), "starting http server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
