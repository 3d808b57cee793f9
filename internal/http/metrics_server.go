package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/allisson/fieldcrypt/internal/metrics"
)

// MetricsServer exposes the Prometheus scrape endpoint on its own port, outside the customers
// API rate limit and request metrics.
type MetricsServer struct {
	listener
}

// NewMetricsServer serves the registry of provider at /metrics; every other path is a 404.
// provider must not be nil: callers skip the metrics server entirely when metrics are disabled.
func NewMetricsServer(host string, port int, logger *slog.Logger, provider *metrics.Provider) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	router.GET("/metrics", gin.WrapH(provider.Handler()))

	s := &MetricsServer{listener: newListener("metrics server", host, port, logger)}
	s.server.Handler = router
	return s
}
