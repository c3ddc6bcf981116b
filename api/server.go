// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, configuration replay, output serialization.
// The API NEVER performs cost logic.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"creative-pricing/core/pricing"
	"creative-pricing/internal/logging"
	"creative-pricing/internal/metrics"
)

// MaxBodySize limits request bodies; configurations are small
const MaxBodySize = 1 << 20

// Options configures the server
type Options struct {
	Version string
	Metrics bool
}

// Server is the API server
type Server struct {
	handler *Handler
	router  *gin.Engine
	httpSrv *http.Server
	opts    Options
}

// NewServer creates a new API server over one pricing table
func NewServer(table *pricing.Table, opts Options) *Server {
	s := &Server{
		handler: NewHandler(table, opts.Version),
		router:  gin.New(),
		opts:    opts,
	}

	s.setupMiddleware()
	s.registerRoutes()

	metrics.SetTable(table.Version(), table.Fingerprint().Short())
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.Error("panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}))

	s.router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize)
		c.Next()
	})

	if s.opts.Metrics {
		s.router.Use(metrics.Middleware())
	}

	s.router.Use(loggingMiddleware())
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handler.Health)
	s.router.GET("/version", s.handler.Version)

	s.handler.RegisterRoutes(s.router.Group("/v1"))

	if s.opts.Metrics {
		s.router.GET("/metrics", metrics.Handler())
	}
}

// loggingMiddleware writes one line per request
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logging.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logging.Info("starting server", zap.String("addr", addr), zap.String("version", s.opts.Version))
		if err := s.httpSrv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logging.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}
