package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gocloud.dev/secrets"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"

	// Only the local driver is registered; remote KMS providers are out of scope.
	_ "gocloud.dev/secrets/localsecrets"
)

// KeeperMasterKey adapts a gocloud.dev secrets.Keeper to the MasterKey interface.
//
// Keepers do not authenticate associated data, so only empty AAD is accepted. Tink wraps
// keysets with empty AAD, which is the only use this type serves.
type KeeperMasterKey struct {
	id     string
	keeper *secrets.Keeper
}

// OpenKeeperMasterKey opens the keeper at keyURI (for example base64key://...). The key id
// is derived from the URI so that equivalent keepers share cache entries.
func OpenKeeperMasterKey(ctx context.Context, keyURI string) (*KeeperMasterKey, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open keeper: %v", keysetDomain.ErrInvalidMasterKeyURI, err)
	}

	sum := sha256.Sum256([]byte(keyURI))
	return &KeeperMasterKey{
		id:     "keeper-" + hex.EncodeToString(sum[:8]),
		keeper: keeper,
	}, nil
}

// ID returns the URI-derived identifier.
func (k *KeeperMasterKey) ID() string {
	return k.id
}

// Encrypt encrypts plaintext with the keeper.
func (k *KeeperMasterKey) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	if len(associatedData) > 0 {
		return nil, keysetDomain.ErrAssociatedDataUnsupported
	}
	return k.keeper.Encrypt(context.Background(), plaintext)
}

// Decrypt decrypts ciphertext with the keeper.
func (k *KeeperMasterKey) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	if len(associatedData) > 0 {
		return nil, keysetDomain.ErrAssociatedDataUnsupported
	}
	plaintext, err := k.keeper.Decrypt(context.Background(), ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", keysetDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// Close releases the keeper.
func (k *KeeperMasterKey) Close() error {
	return k.keeper.Close()
}
