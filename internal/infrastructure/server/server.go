package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alejandrosejas/binance-bob-usdt/internal/infrastructure/config"
)

// Server wraps http.Server with lifecycle logging. The write timeout is left
// at zero when streaming endpoints are served, since SSE connections stay
// open indefinitely.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func New(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeoutDur,
			WriteTimeout: cfg.WriteTimeoutDur,
		},
		logger: logger,
	}
}

// Start blocks serving requests until the listener is closed.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests with a bounded grace period.
func (s *Server) Shutdown(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
