package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	customerDomain "github.com/allisson/fieldcrypt/internal/customer/domain"
	"github.com/allisson/fieldcrypt/internal/database"
	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// mysqlDuplicateEntry is the server error number for unique key violations.
const mysqlDuplicateEntry = 1062

// MySQLCustomerRepository implements customer persistence for MySQL databases.
// Ids are stored as BINARY(16).
type MySQLCustomerRepository struct {
	db *sql.DB
}

// Create inserts a new customer row.
func (m *MySQLCustomerRepository) Create(
	ctx context.Context,
	customer *customerDomain.EncryptedCustomer,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO customers (id, email, email_lookup, profile, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := customer.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		customer.Email,
		customer.EmailLookup,
		customer.Profile,
		customer.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return customerDomain.ErrCustomerAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create customer")
	}

	return nil
}

// Get retrieves a customer row by id.
func (m *MySQLCustomerRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*customerDomain.EncryptedCustomer, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, email, email_lookup, profile, created_at
			  FROM customers
			  WHERE id = ?`

	binID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal customer id")
	}

	return m.scan(querier.QueryRowContext(ctx, query, binID), "failed to get customer")
}

// GetByEmailLookup retrieves a customer row by the deterministic email ciphertext.
func (m *MySQLCustomerRepository) GetByEmailLookup(
	ctx context.Context,
	lookup []byte,
) (*customerDomain.EncryptedCustomer, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, email, email_lookup, profile, created_at
			  FROM customers
			  WHERE email_lookup = ?`

	return m.scan(querier.QueryRowContext(ctx, query, lookup), "failed to get customer by email lookup")
}

// List returns customer rows ordered by id.
func (m *MySQLCustomerRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*customerDomain.EncryptedCustomer, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, email, email_lookup, profile, created_at
			  FROM customers
			  ORDER BY id ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list customers")
	}
	defer func() {
		_ = rows.Close()
	}()

	customers := make([]*customerDomain.EncryptedCustomer, 0)
	for rows.Next() {
		customer, err := m.scan(rows, "failed to scan customer")
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating customers")
	}

	return customers, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (m *MySQLCustomerRepository) scan(row scanner, message string) (*customerDomain.EncryptedCustomer, error) {
	var customer customerDomain.EncryptedCustomer
	var id []byte

	err := row.Scan(
		&id,
		&customer.Email,
		&customer.EmailLookup,
		&customer.Profile,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, message)
	}

	if err := customer.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal customer id")
	}

	return &customer, nil
}

// NewMySQLCustomerRepository creates a new MySQL customer repository instance.
func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}
