// Package http provides the HTTP server that exposes the customers API together with health and
// readiness checks.
package http

import (
	"context"
	"log/slog"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/allisson/fieldcrypt/internal/config"
	customerHTTP "github.com/allisson/fieldcrypt/internal/customer/http"
	"github.com/allisson/fieldcrypt/internal/metrics"
)

// ReadinessCheck reports whether a dependency is able to serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Server serves the customers API with its health and readiness checks.
type Server struct {
	listener
}

// NewServer creates a server listening on host:port. SetupRouter installs its handler.
func NewServer(host string, port int, logger *slog.Logger) *Server {
	return &Server{listener: newListener("http server", host, port, logger)}
}

// SetupRouter builds the gin engine. The context bounds background work started by middleware
// and flips /ready to 503 once it is cancelled; readiness maps component names to their checks.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	customerHandler *customerHTTP.CustomerHandler,
	metricsProvider *metrics.Provider,
	readiness map[string]ReadinessCheck,
) error {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(RequestLogger(s.logger))

	if corsMiddleware := newCORSMiddleware(cfg, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		httpMetrics, err := metrics.NewHTTPMetrics(
			metricsProvider.MeterProvider(),
			cfg.MetricsNamespace,
			"/health",
			"/ready",
		)
		if err != nil {
			return err
		}
		router.Use(httpMetrics.Middleware())
	}

	router.GET("/health", HealthHandler())
	router.GET("/ready", ReadinessHandler(ctx, readiness))

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	customers := v1.Group("/customers")
	{
		customers.POST("", customerHandler.CreateHandler)
		customers.GET("", customerHandler.ListHandler)
		customers.GET("/by-email/:email", customerHandler.GetByEmailHandler)
		customers.GET("/:id", customerHandler.GetHandler)
	}

	s.server.Handler = router
	return nil
}
