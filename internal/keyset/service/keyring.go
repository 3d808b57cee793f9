package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/tink-crypto/tink-go/v2/tink"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

// Keyring hands out primitives for named keysets. It looks the name up in its registry,
// then obtains the handle from its cache, resolving it through its source on a miss.
type Keyring struct {
	registry *keysetDomain.Registry
	cache    *Cache
	source   Source
	logger   *slog.Logger
}

// Option configures a Keyring.
type Option func(*Keyring)

// WithCache sets the handle cache. Defaults to DefaultCache.
func WithCache(cache *Cache) Option {
	return func(k *Keyring) {
		k.cache = cache
	}
}

// WithSource sets the keyset source. Defaults to a FileSource.
func WithSource(source Source) Option {
	return func(k *Keyring) {
		k.source = source
	}
}

// WithLogger sets the logger used by the keyring and its default source.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Keyring) {
		k.logger = logger
	}
}

// NewKeyring creates a keyring over registry.
func NewKeyring(registry *keysetDomain.Registry, opts ...Option) *Keyring {
	k := &Keyring{registry: registry}
	for _, opt := range opts {
		opt(k)
	}
	if k.logger == nil {
		k.logger = slog.Default()
	}
	if k.cache == nil {
		k.cache = DefaultCache()
	}
	if k.source == nil {
		k.source = NewFileSource(k.logger)
	}
	return k
}

// Handle returns the resolved handle for the named keyset.
func (k *Keyring) Handle(ctx context.Context, name string) (*Handle, error) {
	d, err := k.registry.Descriptor(name)
	if err != nil {
		return nil, err
	}
	return k.cache.GetOrResolve(ctx, d, k.source)
}

// AEAD returns the randomized primitive of the named keyset.
func (k *Keyring) AEAD(ctx context.Context, name string) (tink.AEAD, error) {
	h, err := k.Handle(ctx, name)
	if err != nil {
		return nil, err
	}
	return h.AEAD()
}

// DeterministicAEAD returns the deterministic primitive of the named keyset.
func (k *Keyring) DeterministicAEAD(ctx context.Context, name string) (tink.DeterministicAEAD, error) {
	h, err := k.Handle(ctx, name)
	if err != nil {
		return nil, err
	}
	return h.DeterministicAEAD()
}

// Names returns the configured keyset names.
func (k *Keyring) Names() []string {
	return k.registry.Names()
}

// Validate checks every registry entry without loading key material.
func (k *Keyring) Validate() error {
	return k.registry.Validate()
}

// VerifyAll resolves every configured keyset, reporting the first failure.
func (k *Keyring) VerifyAll(ctx context.Context) error {
	if err := k.Validate(); err != nil {
		return err
	}
	for _, name := range k.Names() {
		if _, err := k.Handle(ctx, name); err != nil {
			return err
		}
		k.logger.InfoContext(ctx, "keyset verified", slog.String("keyset", name))
	}
	return nil
}

var defaultKeyring atomic.Pointer[Keyring]

// Configure installs a process-wide keyring built from cfg and backed by DefaultCache.
// This is shared mutable state; services and tests should prefer injecting a Keyring.
func Configure(cfg keysetDomain.Config, opts ...Option) *Keyring {
	k := NewKeyring(keysetDomain.NewRegistry(cfg), opts...)
	defaultKeyring.Store(k)
	return k
}

// SetDefault installs k as the process-wide keyring. A nil k clears it.
func SetDefault(k *Keyring) {
	defaultKeyring.Store(k)
}

// Default returns the process-wide keyring or ErrKeysetsNotConfigured.
func Default() (*Keyring, error) {
	k := defaultKeyring.Load()
	if k == nil {
		return nil, keysetDomain.ErrKeysetsNotConfigured
	}
	return k, nil
}
