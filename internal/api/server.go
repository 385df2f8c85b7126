package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JONGYYY/storyscrape/internal/api/middleware"
	"github.com/JONGYYY/storyscrape/internal/config"
	"github.com/JONGYYY/storyscrape/internal/logger"
	"github.com/JONGYYY/storyscrape/internal/metrics"
	"github.com/JONGYYY/storyscrape/internal/reddit"
)

// Server is the HTTP API server.
type Server struct {
	cfg      config.ServerConfig
	log      logger.Interface
	scraper  reddit.Scraper
	metrics  *metrics.Metrics
	security *middleware.SecurityMiddleware
	httpSrv  *http.Server
}

// NewServer creates an API server over the given scraper.
func NewServer(cfg config.ServerConfig, log logger.Interface, scraper reddit.Scraper, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.NewMetrics()
	}

	return &Server{
		cfg:      cfg,
		log:      log.WithComponent("api"),
		scraper:  scraper,
		metrics:  m,
		security: middleware.NewSecurityMiddleware(log, m, cfg.RateLimit, cfg.RateLimitWindow),
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		s.requestLogger(),
		gin.Recovery(),
	)

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", s.handleMetrics)

	apiGroup := router.Group("/api")
	apiGroup.Use(s.security.Middleware())
	apiGroup.POST("/scrape", s.handleScrape)

	return router
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully within the given timeout.
func (s *Server) Start(ctx context.Context, shutdownTimeout time.Duration) error {
	s.httpSrv = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	go s.security.Cleanup(ctx)

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "address", s.cfg.Address)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.security.WaitCleanup()

	return nil
}

// handleHealth is the liveness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleMetrics exposes the in-memory counters.
func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// requestLogger logs one structured entry per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		// Health checks are noise at info level.
		if strings.HasPrefix(path, "/healthz") {
			return
		}

		fields := []any{
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		}

		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
			s.log.Error("HTTP request with errors", fields...)
			return
		}

		s.log.Info("HTTP request", fields...)
	}
}
