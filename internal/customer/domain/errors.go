package domain

import (
	"github.com/allisson/fieldcrypt/internal/errors"
)

// Customer-specific error definitions.
var (
	// ErrCustomerNotFound indicates no customer matches the id or email.
	ErrCustomerNotFound = errors.Wrap(errors.ErrNotFound, "customer not found")

	// ErrCustomerAlreadyExists indicates the email is already registered.
	ErrCustomerAlreadyExists = errors.Wrap(errors.ErrConflict, "customer already exists")

	// ErrCustomerIDMissing indicates the email codec ran without a customer id in context.
	ErrCustomerIDMissing = errors.Wrap(errors.ErrInvalidInput, "customer id missing from context")
)
