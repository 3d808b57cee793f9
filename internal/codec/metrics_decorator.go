package codec

import (
	"context"
	"time"

	"github.com/allisson/fieldcrypt/internal/metrics"
)

// codecWithMetrics decorates a Codec with metrics instrumentation.
type codecWithMetrics[T any] struct {
	next    Codec[T]
	metrics metrics.BusinessMetrics
}

// WithMetrics wraps a Codec with metrics recording. Absent values are not recorded.
func WithMetrics[T any](c Codec[T], m metrics.BusinessMetrics) Codec[T] {
	return &codecWithMetrics[T]{
		next:    c,
		metrics: m,
	}
}

// Name returns the wrapped codec name.
func (c *codecWithMetrics[T]) Name() string {
	return c.next.Name()
}

// Encode records metrics for encode operations.
func (c *codecWithMetrics[T]) Encode(ctx context.Context, value *T) ([]byte, error) {
	if value == nil {
		return nil, nil
	}

	start := time.Now()
	ciphertext, err := c.next.Encode(ctx, value)
	c.record(ctx, "encode", start, err)

	return ciphertext, err
}

// Decode records metrics for decode operations.
func (c *codecWithMetrics[T]) Decode(ctx context.Context, ciphertext []byte) (*T, error) {
	if ciphertext == nil {
		return nil, nil
	}

	start := time.Now()
	value, err := c.next.Decode(ctx, ciphertext)
	c.record(ctx, "decode", start, err)

	return value, err
}

// DecodeAny records metrics for decode operations.
func (c *codecWithMetrics[T]) DecodeAny(ctx context.Context, src any) (*T, error) {
	start := time.Now()
	value, err := c.next.DecodeAny(ctx, src)
	if value == nil && err == nil {
		return nil, nil
	}
	c.record(ctx, "decode", start, err)

	return value, err
}

func (c *codecWithMetrics[T]) record(ctx context.Context, op string, start time.Time, err error) {
	status := metrics.Status(err)
	operation := c.next.Name() + "_" + op
	c.metrics.RecordOperation(ctx, "codec", operation, status)
	c.metrics.RecordDuration(ctx, "codec", operation, time.Since(start), status)
}
