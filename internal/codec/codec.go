// Package codec encrypts individual record fields before they are stored and decrypts them
// when they are read back.
//
// A codec combines a serializer, an associated-data binder and a keyset primitive obtained
// from a Keyring. Random codecs use Tink AEAD, so encrypting a value twice yields different
// ciphertexts. Deterministic codecs use Tink deterministic AEAD, so equal values yield equal
// ciphertexts and the column can be searched by equality.
//
// Absent values pass through: a nil pointer encodes to nil and a nil buffer decodes to nil.
package codec

import (
	"context"
	"database/sql"
	"fmt"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
	keysetService "github.com/allisson/fieldcrypt/internal/keyset/service"
)

// Codec encodes values of type T into ciphertext and back.
type Codec[T any] interface {
	// Encode encrypts value. A nil value encodes to nil.
	Encode(ctx context.Context, value *T) ([]byte, error)

	// Decode decrypts ciphertext. A nil ciphertext decodes to nil.
	Decode(ctx context.Context, ciphertext []byte) (*T, error)

	// DecodeAny decrypts a ciphertext held in any byte buffer representation returned by
	// a database driver: []byte, sql.RawBytes, *[]byte or string.
	DecodeAny(ctx context.Context, src any) (*T, error)

	// Name identifies the codec in errors and metrics.
	Name() string
}

// Mode selects the primitive family of a codec.
type Mode int

const (
	// Random encrypts with fresh randomness per call.
	Random Mode = iota
	// Deterministic encrypts equal inputs to equal ciphertexts.
	Deterministic
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Deterministic {
		return "deterministic"
	}
	return "random"
}

type options struct {
	keyset  string
	keyring *keysetService.Keyring
	binder  Binder
	name    string
}

// Option configures a codec.
type Option func(*options)

// WithKeyset selects the keyset by name. Defaults to "default".
func WithKeyset(name string) Option {
	return func(o *options) {
		o.keyset = name
	}
}

// WithKeyring sets the keyring primitives are obtained from. Without it the process-wide
// keyring installed by keyset service.Configure is used.
func WithKeyring(keyring *keysetService.Keyring) Option {
	return func(o *options) {
		o.keyring = keyring
	}
}

// WithBinder sets the associated-data binder. Defaults to EmptyBinder.
func WithBinder(binder Binder) Option {
	return func(o *options) {
		o.binder = binder
	}
}

// WithName overrides the codec name used in errors and metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// FieldCodec is the Codec implementation for both modes.
//
// Keysets are resolved on first use, so constructing a codec never fails; configuration
// problems surface from Encode and Decode. A FieldCodec is safe for concurrent use.
type FieldCodec[T any] struct {
	mode       Mode
	serializer Serializer[T]
	opts       options
}

func newFieldCodec[T any](mode Mode, serializer Serializer[T], opts []Option) *FieldCodec[T] {
	o := options{
		keyset: keysetDomain.DefaultKeyset,
		binder: EmptyBinder(),
		name:   mode.String(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &FieldCodec[T]{mode: mode, serializer: serializer, opts: o}
}

// NewEncrypted creates a random-mode codec.
func NewEncrypted[T any](serializer Serializer[T], opts ...Option) *FieldCodec[T] {
	return newFieldCodec(Random, serializer, opts)
}

// NewDeterministic creates a deterministic-mode codec.
func NewDeterministic[T any](serializer Serializer[T], opts ...Option) *FieldCodec[T] {
	return newFieldCodec(Deterministic, serializer, opts)
}

// Name returns the codec name.
func (c *FieldCodec[T]) Name() string {
	return c.opts.name
}

// Mode returns the codec mode.
func (c *FieldCodec[T]) Mode() Mode {
	return c.mode
}

// Keyset returns the name of the keyset the codec encrypts with.
func (c *FieldCodec[T]) Keyset() string {
	return c.opts.keyset
}

// Encode binds associated data, serializes value and encrypts it.
func (c *FieldCodec[T]) Encode(ctx context.Context, value *T) ([]byte, error) {
	if value == nil {
		return nil, nil
	}

	ad, err := c.opts.binder.Bind(ctx, Binding{
		Keyset:    c.opts.keyset,
		Operation: OperationEncode,
		Value:     *value,
	})
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.opts.name, err)
	}

	plaintext, err := c.serializer.Serialize(*value)
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.opts.name, err)
	}

	ciphertext, err := c.encrypt(ctx, plaintext, ad)
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.opts.name, err)
	}
	return ciphertext, nil
}

// Decode binds associated data, decrypts ciphertext and deserializes the plaintext.
// The input slice is never retained.
func (c *FieldCodec[T]) Decode(ctx context.Context, ciphertext []byte) (*T, error) {
	if ciphertext == nil {
		return nil, nil
	}

	ad, err := c.opts.binder.Bind(ctx, Binding{
		Keyset:    c.opts.keyset,
		Operation: OperationDecode,
	})
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.opts.name, err)
	}

	plaintext, err := c.decrypt(ctx, ciphertext, ad)
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.opts.name, err)
	}

	value, err := c.serializer.Deserialize(plaintext)
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.opts.name, err)
	}
	return &value, nil
}

// DecodeAny normalizes src to a byte slice and decodes it.
func (c *FieldCodec[T]) DecodeAny(ctx context.Context, src any) (*T, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return c.Decode(ctx, v)
	case sql.RawBytes:
		return c.Decode(ctx, []byte(v))
	case *[]byte:
		if v == nil {
			return nil, nil
		}
		return c.Decode(ctx, *v)
	case string:
		return c.Decode(ctx, []byte(v))
	default:
		return nil, fmt.Errorf("codec %s: %w: %T", c.opts.name, ErrMalformedCiphertext, src)
	}
}

func (c *FieldCodec[T]) keyring() (*keysetService.Keyring, error) {
	if c.opts.keyring != nil {
		return c.opts.keyring, nil
	}
	return keysetService.Default()
}

func (c *FieldCodec[T]) encrypt(ctx context.Context, plaintext, ad []byte) ([]byte, error) {
	keyring, err := c.keyring()
	if err != nil {
		return nil, err
	}

	if c.mode == Deterministic {
		primitive, err := keyring.DeterministicAEAD(ctx, c.opts.keyset)
		if err != nil {
			return nil, err
		}
		ciphertext, err := primitive.EncryptDeterministically(plaintext, ad)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
		}
		return ciphertext, nil
	}

	primitive, err := keyring.AEAD(ctx, c.opts.keyset)
	if err != nil {
		return nil, err
	}
	ciphertext, err := primitive.Encrypt(plaintext, ad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	return ciphertext, nil
}

func (c *FieldCodec[T]) decrypt(ctx context.Context, ciphertext, ad []byte) ([]byte, error) {
	keyring, err := c.keyring()
	if err != nil {
		return nil, err
	}

	if c.mode == Deterministic {
		primitive, err := keyring.DeterministicAEAD(ctx, c.opts.keyset)
		if err != nil {
			return nil, err
		}
		plaintext, err := primitive.DecryptDeterministically(ciphertext, ad)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
		}
		return plaintext, nil
	}

	primitive, err := keyring.AEAD(ctx, c.opts.keyset)
	if err != nil {
		return nil, err
	}
	plaintext, err := primitive.Decrypt(ciphertext, ad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
