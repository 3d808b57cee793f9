package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/allisson/fieldcrypt/internal/config"
)

// corsMethods are the methods the customers API answers to.
var corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}

// newCORSMiddleware returns the CORS middleware for the customers API, or nil when CORS is
// disabled or no usable origin is configured. The API takes no credentials, so cookies and
// the Authorization header are not allowed cross-origin.
func newCORSMiddleware(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.CORSEnabled {
		return nil
	}

	origins := splitOrigins(cfg.CORSAllowOrigins, logger)
	if len(origins) == 0 {
		logger.Warn("cors enabled without usable origins, middleware not installed")
		return nil
	}
	logger.Info("cors enabled", slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  corsMethods,
		AllowHeaders:  []string{"Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        10 * time.Minute,
	})
}

// splitOrigins parses a comma separated origin list. Blanks and duplicates are dropped, a
// trailing slash is removed, and origins without an http or https scheme are skipped with a
// warning since cors.New rejects them.
func splitOrigins(raw string, logger *slog.Logger) []string {
	var origins []string
	for part := range strings.SplitSeq(raw, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		switch {
		case origin == "" || slices.Contains(origins, origin):
			continue
		case origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://"):
			logger.Warn("ignoring cors origin without scheme", slog.String("origin", origin))
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
