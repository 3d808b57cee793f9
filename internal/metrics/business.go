package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// Status labels recorded with each operation.
const (
	StatusSuccess            = "success"
	StatusError              = "error"
	StatusCryptoError        = "crypto_error"
	StatusConfigurationError = "configuration_error"
	StatusSerializationError = "serialization_error"
)

// codec failure kinds get their own label so integrity failures can be alerted on apart from
// ordinary errors
var statusByKind = map[error]string{
	apperrors.ErrCryptographic: StatusCryptoError,
	apperrors.ErrConfiguration: StatusConfigurationError,
	apperrors.ErrSerialization: StatusSerializationError,
}

// Status converts an operation result to a status label.
func Status(err error) string {
	if err == nil {
		return StatusSuccess
	}
	if status, ok := statusByKind[apperrors.KindOf(err)]; ok {
		return status
	}
	return StatusError
}

// BusinessMetrics records codec and customer operations. Domain is "codec" or "customers";
// operation names the codec or use case method, e.g. customer_email_encode or customer_get.
type BusinessMetrics interface {
	RecordOperation(ctx context.Context, domain, operation, status string)
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

type businessMetrics struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewBusinessMetrics creates <namespace>_operations_total and
// <namespace>_operation_duration_seconds.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Codec and customer operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("operations counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Codec and customer operation latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("operation duration histogram: %w", err)
	}

	return &businessMetrics{operations: operations, duration: duration}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.duration.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

// NoOpBusinessMetrics discards every measurement. It is used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics returns a NoOpBusinessMetrics.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (*NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (*NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}
