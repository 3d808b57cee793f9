// Package domain defines the customer model used by the example service. Customer emails and
// profiles are stored encrypted; a deterministic copy of the email allows lookups by equality.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Customer is the decrypted view of a stored customer.
type Customer struct {
	// ID is the customer identifier; it is also bound as associated data to the email ciphertext.
	ID uuid.UUID
	// Email is the plaintext email address.
	Email string
	// Profile holds free-form attributes; nil when none were supplied.
	Profile map[string]any
	// CreatedAt is the UTC creation time.
	CreatedAt time.Time
}

// EncryptedCustomer is the row persisted by repositories.
type EncryptedCustomer struct {
	ID uuid.UUID
	// Email is the random-mode ciphertext of the email.
	Email []byte
	// EmailLookup is the deterministic-mode ciphertext of the normalized email.
	EmailLookup []byte
	// Profile is the random-mode ciphertext of the canonical JSON profile, or nil.
	Profile   []byte
	CreatedAt time.Time
}

type customerIDKey struct{}

// WithCustomerID returns a context carrying the customer id used as associated data.
func WithCustomerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, customerIDKey{}, id)
}

// CustomerIDFromContext returns the customer id stored by WithCustomerID.
func CustomerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(customerIDKey{}).(uuid.UUID)
	return id, ok
}
