package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// unmatchedRoute labels requests that hit no route, keeping raw paths out of the label set.
const unmatchedRoute = "unmatched"

// HTTPMetrics records request counts, latencies and in-flight requests per gin route pattern.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
	skip     map[string]struct{}
}

// NewHTTPMetrics creates the instruments under namespace. Requests to skipRoutes (health and
// readiness checks) are not recorded.
func NewHTTPMetrics(meterProvider metric.MeterProvider, namespace string, skipRoutes ...string) (*HTTPMetrics, error) {
	meter := meterProvider.Meter(namespace)

	requests, err := meter.Int64Counter(
		namespace+"_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("http requests counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		namespace+"_http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("http duration histogram: %w", err)
	}

	inFlight, err := meter.Int64UpDownCounter(
		namespace+"_http_requests_in_flight",
		metric.WithDescription("HTTP requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("http in-flight counter: %w", err)
	}

	skip := make(map[string]struct{}, len(skipRoutes))
	for _, r := range skipRoutes {
		skip[r] = struct{}{}
	}

	return &HTTPMetrics{requests: requests, duration: duration, inFlight: inFlight, skip: skip}, nil
}

// Middleware returns the gin middleware. The route is read before the handlers run, so
// labels carry patterns such as /v1/customers/:id and never customer identifiers.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if _, ok := m.skip[route]; ok {
			c.Next()
			return
		}
		if route == "" {
			route = unmatchedRoute
		}

		ctx := c.Request.Context()
		method := attribute.String("method", c.Request.Method)
		m.inFlight.Add(ctx, 1, metric.WithAttributes(method))
		defer m.inFlight.Add(context.WithoutCancel(ctx), -1, metric.WithAttributes(method))

		start := time.Now()
		c.Next()

		attrs := metric.WithAttributes(
			method,
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
