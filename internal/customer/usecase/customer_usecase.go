package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/fieldcrypt/internal/customer/domain"
	"github.com/allisson/fieldcrypt/internal/database"
	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// customerUseCase implements the CustomerUseCase interface.
type customerUseCase struct {
	txManager    database.TxManager
	customerRepo CustomerRepository
	codecs       Codecs
}

// Create encrypts the customer fields and stores them. The email is normalized (trimmed and
// lowercased) so that lookups are case-insensitive.
func (c *customerUseCase) Create(
	ctx context.Context,
	email string,
	profile map[string]any,
) (*customerDomain.Customer, error) {
	email = normalizeEmail(email)

	lookup, err := c.codecs.EmailLookup.Encode(ctx, &email)
	if err != nil {
		return nil, err
	}

	customer := &customerDomain.Customer{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     email,
		Profile:   profile,
		CreatedAt: time.Now().UTC(),
	}
	boundCtx := customerDomain.WithCustomerID(ctx, customer.ID)

	encryptedEmail, err := c.codecs.Email.Encode(boundCtx, &customer.Email)
	if err != nil {
		return nil, err
	}

	var encryptedProfile []byte
	if profile != nil {
		encryptedProfile, err = c.codecs.Profile.Encode(boundCtx, &profile)
		if err != nil {
			return nil, err
		}
	}

	err = c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := c.customerRepo.GetByEmailLookup(txCtx, lookup)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if existing != nil {
			return customerDomain.ErrCustomerAlreadyExists
		}

		return c.customerRepo.Create(txCtx, &customerDomain.EncryptedCustomer{
			ID:          customer.ID,
			Email:       encryptedEmail,
			EmailLookup: lookup,
			Profile:     encryptedProfile,
			CreatedAt:   customer.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	return customer, nil
}

// Get loads and decrypts a customer by id.
func (c *customerUseCase) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	row, err := c.customerRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, customerDomain.ErrCustomerNotFound
		}
		return nil, err
	}
	return c.decrypt(ctx, row)
}

// GetByEmail encrypts the normalized email deterministically and looks the ciphertext up.
func (c *customerUseCase) GetByEmail(ctx context.Context, email string) (*customerDomain.Customer, error) {
	email = normalizeEmail(email)

	lookup, err := c.codecs.EmailLookup.Encode(ctx, &email)
	if err != nil {
		return nil, err
	}

	row, err := c.customerRepo.GetByEmailLookup(ctx, lookup)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, customerDomain.ErrCustomerNotFound
		}
		return nil, err
	}
	return c.decrypt(ctx, row)
}

// List loads a page of customers and decrypts each row with its own id bound.
func (c *customerUseCase) List(ctx context.Context, offset, limit int) ([]*customerDomain.Customer, error) {
	rows, err := c.customerRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	customers := make([]*customerDomain.Customer, 0, len(rows))
	for _, row := range rows {
		customer, err := c.decrypt(ctx, row)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func (c *customerUseCase) decrypt(
	ctx context.Context,
	row *customerDomain.EncryptedCustomer,
) (*customerDomain.Customer, error) {
	boundCtx := customerDomain.WithCustomerID(ctx, row.ID)

	email, err := c.codecs.Email.Decode(boundCtx, row.Email)
	if err != nil {
		return nil, err
	}

	customer := &customerDomain.Customer{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
	}
	if email != nil {
		customer.Email = *email
	}

	profile, err := c.codecs.Profile.Decode(boundCtx, row.Profile)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		customer.Profile = *profile
	}

	return customer, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(
	txManager database.TxManager,
	customerRepo CustomerRepository,
	codecs Codecs,
) CustomerUseCase {
	return &customerUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		codecs:       codecs,
	}
}
