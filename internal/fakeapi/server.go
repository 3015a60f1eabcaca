// Package fakeapi is an in-process stand-in for the Micetro REST API. It
// speaks the same envelopes and status codes over HTTP and keeps all state
// in memory, which makes it suitable for tests and local experiments.
package fakeapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/jroosing/mmws/internal/fakeapi/handlers"
	"github.com/jroosing/mmws/internal/fakeapi/middleware"
	"github.com/jroosing/mmws/internal/fakeapi/store"
)

const shutdownTimeout = 5 * time.Second

// Config configures the fake server.
type Config struct {
	Addr     string // listen address, e.g. "127.0.0.1:8080"
	Username string // empty disables authentication
	Password string
}

// Server is the fake MMWS API server.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	store      *store.Store
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds a server with an empty store.
func New(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	gin.SetMode(gin.ReleaseMode)
	binding.EnableDecoderUseNumber = true

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	st := store.New()
	h := handlers.New(st, logger)
	RegisterRoutes(engine, h, cfg)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, store: st, engine: engine, httpServer: httpServer}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store returns the backing store so tests can seed or inspect state.
func (s *Server) Store() *store.Store {
	return s.store
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is canceled or the listener fails, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	s.logger.Info("fake MMWS API listening", "addr", s.Addr(), "auth", s.cfg.Username != "")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("fake MMWS API stopped", "objects", s.store.Count())
	return nil
}
