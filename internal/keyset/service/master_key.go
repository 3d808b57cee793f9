package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

// RawMasterKey wraps keyset material with a 32-byte key from the master key chain.
//
// Ciphertexts are laid out as nonce || sealed payload so that a single opaque blob can be
// stored in Tink's encryptedKeyset field.
type RawMasterKey struct {
	id          string
	fingerprint string
	cipher      Cipher
}

// NewRawMasterKey builds a master key from chain material using the given algorithm.
func NewRawMasterKey(
	material *keysetDomain.KeyMaterial,
	alg keysetDomain.Algorithm,
	factory CipherFactory,
) (*RawMasterKey, error) {
	if material == nil || material.ID == "" {
		return nil, keysetDomain.ErrMasterKeyIDEmpty
	}

	c, err := factory.CreateCipher(material.Key, alg)
	if err != nil {
		return nil, fmt.Errorf("master key %s: %w", material.ID, err)
	}

	h := sha256.New()
	h.Write([]byte(alg))
	h.Write([]byte{0})
	h.Write(material.Key)

	return &RawMasterKey{
		id:          material.ID,
		fingerprint: hex.EncodeToString(h.Sum(nil)[:8]),
		cipher:      c,
	}, nil
}

// ID returns the chain identifier of the key.
func (m *RawMasterKey) ID() string {
	return m.id
}

// Fingerprint identifies the algorithm and key bytes, so a chain id reused with other
// material in the same process does not hit a stale cache entry.
func (m *RawMasterKey) Fingerprint() string {
	return m.fingerprint
}

// Encrypt seals plaintext and prefixes the nonce.
func (m *RawMasterKey) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	ciphertext, nonce, err := m.cipher.Encrypt(plaintext, associatedData)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(nonce)+len(ciphertext))
	out = append(out, nonce...)
	return append(out, ciphertext...), nil
}

// Decrypt splits the nonce prefix and opens the payload.
func (m *RawMasterKey) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	size := m.cipher.NonceSize()
	if len(ciphertext) < size {
		return nil, fmt.Errorf("%w: ciphertext too short", keysetDomain.ErrDecryptionFailed)
	}
	return m.cipher.Decrypt(ciphertext[size:], ciphertext[:size], associatedData)
}

// ChainResolver returns a resolver that looks master keys up in chain. An empty id selects
// the active key.
func ChainResolver(
	chain *keysetDomain.MasterKeyChain,
	alg keysetDomain.Algorithm,
	factory CipherFactory,
) keysetDomain.MasterKeyResolver {
	return func(id string) (keysetDomain.MasterKey, error) {
		if id == "" {
			id = chain.ActiveMasterKeyID()
		}

		material, ok := chain.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", keysetDomain.ErrMasterKeyNotFound, id)
		}

		return NewRawMasterKey(material, alg, factory)
	}
}
