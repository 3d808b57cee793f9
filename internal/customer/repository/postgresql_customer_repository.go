// Package repository implements customer persistence for PostgreSQL and MySQL. Encrypted
// fields are stored as opaque binary columns.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	customerDomain "github.com/allisson/fieldcrypt/internal/customer/domain"
	"github.com/allisson/fieldcrypt/internal/database"
	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// PostgreSQLCustomerRepository implements customer persistence for PostgreSQL databases.
type PostgreSQLCustomerRepository struct {
	db *sql.DB
}

// Create inserts a new customer row.
func (p *PostgreSQLCustomerRepository) Create(
	ctx context.Context,
	customer *customerDomain.EncryptedCustomer,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO customers (id, email, email_lookup, profile, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Email,
		customer.EmailLookup,
		customer.Profile,
		customer.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return customerDomain.ErrCustomerAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create customer")
	}
	return nil
}

// Get retrieves a customer row by id.
func (p *PostgreSQLCustomerRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*customerDomain.EncryptedCustomer, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, email, email_lookup, profile, created_at
			  FROM customers
			  WHERE id = $1`

	var customer customerDomain.EncryptedCustomer
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Email,
		&customer.EmailLookup,
		&customer.Profile,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get customer")
	}

	return &customer, nil
}

// GetByEmailLookup retrieves a customer row by the deterministic email ciphertext.
func (p *PostgreSQLCustomerRepository) GetByEmailLookup(
	ctx context.Context,
	lookup []byte,
) (*customerDomain.EncryptedCustomer, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, email, email_lookup, profile, created_at
			  FROM customers
			  WHERE email_lookup = $1`

	var customer customerDomain.EncryptedCustomer
	err := querier.QueryRowContext(ctx, query, lookup).Scan(
		&customer.ID,
		&customer.Email,
		&customer.EmailLookup,
		&customer.Profile,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get customer by email lookup")
	}

	return &customer, nil
}

// List returns customer rows ordered by id. Ids are UUIDv7, so this is creation order.
func (p *PostgreSQLCustomerRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*customerDomain.EncryptedCustomer, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, email, email_lookup, profile, created_at
			  FROM customers
			  ORDER BY id ASC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list customers")
	}
	defer func() {
		_ = rows.Close()
	}()

	customers := make([]*customerDomain.EncryptedCustomer, 0)
	for rows.Next() {
		var customer customerDomain.EncryptedCustomer
		err := rows.Scan(
			&customer.ID,
			&customer.Email,
			&customer.EmailLookup,
			&customer.Profile,
			&customer.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan customer")
		}
		customers = append(customers, &customer)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating customers")
	}

	return customers, nil
}

// NewPostgreSQLCustomerRepository creates a new PostgreSQL customer repository instance.
func NewPostgreSQLCustomerRepository(db *sql.DB) *PostgreSQLCustomerRepository {
	return &PostgreSQLCustomerRepository{db: db}
}
