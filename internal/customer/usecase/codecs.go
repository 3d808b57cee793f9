package usecase

import (
	"context"

	"github.com/allisson/fieldcrypt/internal/codec"
	customerDomain "github.com/allisson/fieldcrypt/internal/customer/domain"
	keysetService "github.com/allisson/fieldcrypt/internal/keyset/service"
	"github.com/allisson/fieldcrypt/internal/metrics"
)

// Codecs groups the field codecs used for a customer row.
type Codecs struct {
	Email       codec.Codec[string]
	EmailLookup codec.Codec[string]
	Profile     codec.Codec[map[string]any]
}

// NewCodecs builds the customer codecs on keyring. Email and profile ciphertexts are bound to
// the customer id taken from the context; the lookup column uses the deterministic keyset
// lookupKeyset and stays unbound so it can be searched.
func NewCodecs(keyring *keysetService.Keyring, randomKeyset, lookupKeyset string) Codecs {
	return Codecs{
		Email: codec.EncryptedString(
			codec.WithKeyring(keyring),
			codec.WithKeyset(randomKeyset),
			codec.WithBinder(codec.BinderFunc(customerIDBinder)),
			codec.WithName("customer_email"),
		),
		EmailLookup: codec.DeterministicEncryptedString(
			codec.WithKeyring(keyring),
			codec.WithKeyset(lookupKeyset),
			codec.WithName("customer_email_lookup"),
		),
		Profile: codec.EncryptedJSON[map[string]any](
			codec.WithKeyring(keyring),
			codec.WithKeyset(randomKeyset),
			codec.WithBinder(codec.BinderFunc(customerIDBinder)),
			codec.WithName("customer_profile"),
		),
	}
}

// WithMetrics wraps every codec with metrics recording.
func (c Codecs) WithMetrics(m metrics.BusinessMetrics) Codecs {
	return Codecs{
		Email:       codec.WithMetrics(c.Email, m),
		EmailLookup: codec.WithMetrics(c.EmailLookup, m),
		Profile:     codec.WithMetrics(c.Profile, m),
	}
}

func customerIDBinder(ctx context.Context, _ codec.Binding) (any, error) {
	id, ok := customerDomain.CustomerIDFromContext(ctx)
	if !ok {
		return nil, customerDomain.ErrCustomerIDMissing
	}
	return id[:], nil
}
