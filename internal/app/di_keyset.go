package app

import (
	"context"
	"fmt"
	"log/slog"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
	keysetService "github.com/allisson/fieldcrypt/internal/keyset/service"
)

// MasterKeyResolver returns the resolver used for wrapped keysets, or nil when neither
// MASTER_KEY_URI nor MASTER_KEYS is configured.
//
// An empty master key id selects the keeper when MASTER_KEY_URI is set and the active chain
// key otherwise. Explicit ids are looked up in the MASTER_KEYS chain.
func (c *Container) MasterKeyResolver() (keysetDomain.MasterKeyResolver, error) {
	c.masterKeysInit.Do(func() {
		c.store("masterKeys", c.initMasterKeys())
	})
	if err := c.initError("masterKeys"); err != nil {
		return nil, err
	}

	if c.keeperKey == nil && c.masterKeyChain == nil {
		return nil, nil
	}

	var chainResolver keysetDomain.MasterKeyResolver
	if c.masterKeyChain != nil {
		alg, err := keysetDomain.ParseAlgorithm(c.config.MasterKeyAlgorithm)
		if err != nil {
			return nil, fmt.Errorf("master key algorithm %q: %w", c.config.MasterKeyAlgorithm, err)
		}
		chainResolver = keysetService.ChainResolver(c.masterKeyChain, alg, keysetService.NewCipherFactory())
	}

	keeper := c.keeperKey
	return func(id string) (keysetDomain.MasterKey, error) {
		if id == "" && keeper != nil {
			return keeper, nil
		}
		if chainResolver == nil {
			return nil, fmt.Errorf("%w: %s", keysetDomain.ErrMasterKeyNotFound, id)
		}
		return chainResolver(id)
	}, nil
}

// Keyring returns the keyring built from KEYSETS. It is also installed as the process-wide
// default so codecs built without an explicit keyring resolve through it.
func (c *Container) Keyring() (*keysetService.Keyring, error) {
	c.keyringInit.Do(func() {
		keyring, err := c.initKeyring()
		c.store("keyring", err)
		c.keyring = keyring
	})
	if err := c.initError("keyring"); err != nil {
		return nil, err
	}
	return c.keyring, nil
}

func (c *Container) initMasterKeys() error {
	if c.config.MasterKeyURI != "" {
		keeper, err := keysetService.OpenKeeperMasterKey(context.Background(), c.config.MasterKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open master key keeper: %w", err)
		}
		c.keeperKey = keeper
	}

	if c.config.MasterKeys != "" {
		chain, err := keysetDomain.ParseMasterKeyChain(c.config.MasterKeys, c.config.ActiveMasterKeyID)
		if err != nil {
			return fmt.Errorf("failed to load master key chain: %w", err)
		}
		c.masterKeyChain = chain
	}

	return nil
}

func (c *Container) initKeyring() (*keysetService.Keyring, error) {
	logger := c.Logger()

	resolver, err := c.MasterKeyResolver()
	if err != nil {
		return nil, err
	}

	cfg, err := keysetDomain.ParseKeysets(c.config.Keysets, resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to parse keysets: %w", err)
	}

	keyring := keysetService.Configure(cfg, keysetService.WithLogger(logger))
	logger.Debug("keysets configured", slog.Any("keysets", keyring.Names()))
	return keyring, nil
}
