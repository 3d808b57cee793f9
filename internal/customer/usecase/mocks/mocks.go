// Package mocks provides testify mocks for the customer use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	customerDomain "github.com/allisson/fieldcrypt/internal/customer/domain"
)

// MockCustomerRepository is a mock implementation of usecase.CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

// NewMockCustomerRepository creates a mock whose expectations are asserted at cleanup.
func NewMockCustomerRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCustomerRepository {
	m := &MockCustomerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create provides a mock function.
func (m *MockCustomerRepository) Create(ctx context.Context, customer *customerDomain.EncryptedCustomer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// Get provides a mock function.
func (m *MockCustomerRepository) Get(ctx context.Context, id uuid.UUID) (*customerDomain.EncryptedCustomer, error) {
	args := m.Called(ctx, id)
	customer, _ := args.Get(0).(*customerDomain.EncryptedCustomer)
	return customer, args.Error(1)
}

// GetByEmailLookup provides a mock function.
func (m *MockCustomerRepository) GetByEmailLookup(
	ctx context.Context,
	lookup []byte,
) (*customerDomain.EncryptedCustomer, error) {
	args := m.Called(ctx, lookup)
	customer, _ := args.Get(0).(*customerDomain.EncryptedCustomer)
	return customer, args.Error(1)
}

// List provides a mock function.
func (m *MockCustomerRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*customerDomain.EncryptedCustomer, error) {
	args := m.Called(ctx, offset, limit)
	customers, _ := args.Get(0).([]*customerDomain.EncryptedCustomer)
	return customers, args.Error(1)
}

// MockCustomerUseCase is a mock implementation of usecase.CustomerUseCase.
type MockCustomerUseCase struct {
	mock.Mock
}

// NewMockCustomerUseCase creates a mock whose expectations are asserted at cleanup.
func NewMockCustomerUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCustomerUseCase {
	m := &MockCustomerUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create provides a mock function.
func (m *MockCustomerUseCase) Create(
	ctx context.Context,
	email string,
	profile map[string]any,
) (*customerDomain.Customer, error) {
	args := m.Called(ctx, email, profile)
	customer, _ := args.Get(0).(*customerDomain.Customer)
	return customer, args.Error(1)
}

// Get provides a mock function.
func (m *MockCustomerUseCase) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	args := m.Called(ctx, id)
	customer, _ := args.Get(0).(*customerDomain.Customer)
	return customer, args.Error(1)
}

// GetByEmail provides a mock function.
func (m *MockCustomerUseCase) GetByEmail(ctx context.Context, email string) (*customerDomain.Customer, error) {
	args := m.Called(ctx, email)
	customer, _ := args.Get(0).(*customerDomain.Customer)
	return customer, args.Error(1)
}

// List provides a mock function.
func (m *MockCustomerUseCase) List(ctx context.Context, offset, limit int) ([]*customerDomain.Customer, error) {
	args := m.Called(ctx, offset, limit)
	customers, _ := args.Get(0).([]*customerDomain.Customer)
	return customers, args.Error(1)
}

// MockTxManager is a mock implementation of database.TxManager that runs fn inline.
type MockTxManager struct {
	mock.Mock
}

// NewMockTxManager creates a mock whose expectations are asserted at cleanup.
func NewMockTxManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTxManager {
	m := &MockTxManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// WithTx records the call and runs fn unless an error is configured.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
