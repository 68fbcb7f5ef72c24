package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Default server settings.
const (
	DefaultAddr           = ":8000"
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxBodyBytes   = 10 << 20
	shutdownTimeout       = 10 * time.Second
)

// Config holds HTTP server settings.
type Config struct {
	// Addr is the listen address (default: ":8000").
	Addr string

	// CORSOrigins lists allowed browser origins. Empty disables CORS headers.
	CORSOrigins []string

	// RequestTimeout bounds each request (default: 60s).
	RequestTimeout time.Duration

	// MaxBodyBytes bounds request bodies, including corpus uploads (default: 10 MiB).
	MaxBodyBytes int64

	// Logger receives access and error logs. Nil means no logging.
	Logger *zap.Logger
}

// Server is the HTTP API server.
type Server struct {
	ports  *Ports
	cfg    Config
	logger *zap.Logger
	router chi.Router
}

// NewServer creates a server for the given ports.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Server{
		ports:  ports,
		cfg:    cfg,
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes builds the router and its middleware stack.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/stats", s.handleStats)
	r.Get("/entries/{position}", s.handleEntry)
	r.Post("/query", s.handleQuery)
	r.Post("/load", s.handleLoad)
	r.Post("/reload", s.handleReload)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		_ = writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "endpoint not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		_ = writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method_not_allowed"})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
