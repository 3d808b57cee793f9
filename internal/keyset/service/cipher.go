package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

const masterKeySize = 32

// aeadConstructors builds the AEAD behind each master key algorithm from a 32-byte key.
var aeadConstructors = map[keysetDomain.Algorithm]func(key []byte) (cipher.AEAD, error){
	keysetDomain.AESGCM: func(key []byte) (cipher.AEAD, error) {
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	},
	keysetDomain.ChaCha20: chacha20poly1305.New,
}

// aeadCipher wraps a keyset under a master key. Each Encrypt draws a fresh random nonce and
// the tag travels with the ciphertext. Safe for concurrent use.
type aeadCipher struct {
	alg  keysetDomain.Algorithm
	aead cipher.AEAD
}

// Algorithm reports which master key algorithm the cipher was built for.
func (c *aeadCipher) Algorithm() keysetDomain.Algorithm {
	return c.alg
}

func (c *aeadCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("read nonce: %w", err)
	}
	return c.aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

func (c *aeadCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, keysetDomain.ErrDecryptionFailed
	}
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", keysetDomain.ErrDecryptionFailed, c.alg, err)
	}
	return plaintext, nil
}

func (c *aeadCipher) NonceSize() int {
	return c.aead.NonceSize()
}

// CipherFactoryService implements CipherFactory for the algorithms in aeadConstructors.
type CipherFactoryService struct{}

func NewCipherFactory() *CipherFactoryService {
	return &CipherFactoryService{}
}

// CreateCipher returns ErrInvalidKeySize unless key is 32 bytes and ErrUnsupportedAlgorithm
// for an algorithm without a constructor.
func (f *CipherFactoryService) CreateCipher(key []byte, alg keysetDomain.Algorithm) (Cipher, error) {
	if len(key) != masterKeySize {
		return nil, keysetDomain.ErrInvalidKeySize
	}
	build, ok := aeadConstructors[alg]
	if !ok {
		return nil, keysetDomain.ErrUnsupportedAlgorithm
	}
	aead, err := build(key)
	if err != nil {
		return nil, fmt.Errorf("build %s cipher: %w", alg, err)
	}
	return &aeadCipher{alg: alg, aead: aead}, nil
}
