// Package service resolves configured keysets into Tink primitives. It reads keyset files,
// unwraps them with master keys, memoizes the resulting handles and exposes them through a
// Keyring that codecs consume.
package service

import (
	"context"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

// Cipher defines the interface for the raw master key ciphers.
type Cipher interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length expected by Decrypt.
	NonceSize() int
}

// CipherFactory defines the interface for creating Cipher instances.
type CipherFactory interface {
	// CreateCipher creates a cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg keysetDomain.Algorithm) (Cipher, error)
}

// Source loads key material for a descriptor and builds its primitives.
type Source interface {
	// Resolve reads the keyset described by d. Failures are configuration errors.
	Resolve(ctx context.Context, d *keysetDomain.Descriptor) (*Handle, error)
}
