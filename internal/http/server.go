package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Server struct {
	httpServer *http.Server
	port       int
	log        *slog.Logger
}

func NewServer(handler http.Handler, port int, timeout, idleTimeout time.Duration, log *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
			IdleTimeout:  idleTimeout,
		},
		port: port,
		log:  log,
	}
}

// Run serves until Stop is called. It returns nil after a graceful stop.
func (s *Server) Run() error {
	const op = "http.Server.Run"

	s.log.Info("http server started", slog.String("op", op), slog.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping http server", slog.Int("port", s.port))
	return s.httpServer.Shutdown(ctx)
}
