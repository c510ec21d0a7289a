package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/berth-web/berth/pkg/message"
)

// Server wraps an http.Server with host resolution wired in.
type Server struct {
	config  *Config
	adapter *Adapter
	httpSrv *http.Server
	logger  *slog.Logger
}

// New creates a server from a config and an adapter. A nil config
// uses DefaultConfig.
func New(config *Config, adapter *Adapter, logger *slog.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	if config.MetricsPath != "" {
		mux.Handle(config.MetricsPath, promhttp.Handler())
	}
	mux.Handle("/*", adapter)

	return &Server{
		config:  config,
		adapter: adapter,
		logger:  logger,
		httpSrv: &http.Server{
			Addr:         config.Address,
			Handler:      mux,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Info returns the connector description for the configured address,
// suitable for host pattern matching.
func Info(address string) message.ServerInfo {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return message.ServerInfo{Address: address}
	}
	return message.ServerInfo{Address: host, Port: port}
}

// Run starts the server and blocks until the context is canceled,
// then shuts down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "address", s.config.Address)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down", "timeout", s.config.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
