package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/fieldcrypt/internal/customer/domain"
	"github.com/allisson/fieldcrypt/internal/metrics"
)

// customerUseCaseWithMetrics decorates CustomerUseCase with metrics instrumentation.
type customerUseCaseWithMetrics struct {
	next    CustomerUseCase
	metrics metrics.BusinessMetrics
}

// NewCustomerUseCaseWithMetrics wraps a CustomerUseCase with metrics recording.
func NewCustomerUseCaseWithMetrics(useCase CustomerUseCase, m metrics.BusinessMetrics) CustomerUseCase {
	return &customerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for customer creation.
func (c *customerUseCaseWithMetrics) Create(
	ctx context.Context,
	email string,
	profile map[string]any,
) (*customerDomain.Customer, error) {
	start := time.Now()
	customer, err := c.next.Create(ctx, email, profile)
	c.record(ctx, "customer_create", start, err)
	return customer, err
}

// Get records metrics for customer retrieval by id.
func (c *customerUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	start := time.Now()
	customer, err := c.next.Get(ctx, id)
	c.record(ctx, "customer_get", start, err)
	return customer, err
}

// GetByEmail records metrics for customer retrieval by email.
func (c *customerUseCaseWithMetrics) GetByEmail(
	ctx context.Context,
	email string,
) (*customerDomain.Customer, error) {
	start := time.Now()
	customer, err := c.next.GetByEmail(ctx, email)
	c.record(ctx, "customer_get_by_email", start, err)
	return customer, err
}

// List records metrics for customer listing.
func (c *customerUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*customerDomain.Customer, error) {
	start := time.Now()
	customers, err := c.next.List(ctx, offset, limit)
	c.record(ctx, "customer_list", start, err)
	return customers, err
}

func (c *customerUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	c.metrics.RecordOperation(ctx, "customers", operation, status)
	c.metrics.RecordDuration(ctx, "customers", operation, time.Since(start), status)
}
