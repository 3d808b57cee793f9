// Package usecase implements the customer workflows: encrypting fields before they reach the
// repository and decrypting them on the way out.
package usecase

import (
	"context"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/fieldcrypt/internal/customer/domain"
)

// CustomerRepository defines the interface for customer persistence operations.
type CustomerRepository interface {
	Create(ctx context.Context, customer *customerDomain.EncryptedCustomer) error
	Get(ctx context.Context, id uuid.UUID) (*customerDomain.EncryptedCustomer, error)
	GetByEmailLookup(ctx context.Context, lookup []byte) (*customerDomain.EncryptedCustomer, error)
	List(ctx context.Context, offset, limit int) ([]*customerDomain.EncryptedCustomer, error)
}

// CustomerUseCase defines the interface for customer business logic.
type CustomerUseCase interface {
	// Create registers a customer. Returns ErrCustomerAlreadyExists when the email is taken.
	Create(ctx context.Context, email string, profile map[string]any) (*customerDomain.Customer, error)
	// Get returns the decrypted customer with the given id.
	Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error)
	// GetByEmail finds a customer through the deterministic email column.
	GetByEmail(ctx context.Context, email string) (*customerDomain.Customer, error)
	// List returns a page of decrypted customers in creation order.
	List(ctx context.Context, offset, limit int) ([]*customerDomain.Customer, error)
}
