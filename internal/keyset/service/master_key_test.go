package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
)

func newTestChain(t *testing.T) *keysetDomain.MasterKeyChain {
	t.Helper()
	raw := "key1:" + base64.StdEncoding.EncodeToString(randomKey(t)) +
		",key2:" + base64.StdEncoding.EncodeToString(randomKey(t))
	chain, err := keysetDomain.ParseMasterKeyChain(raw, "key2")
	require.NoError(t, err)
	t.Cleanup(chain.Close)
	return chain
}

func TestRawMasterKey(t *testing.T) {
	material := &keysetDomain.KeyMaterial{ID: "key1", Key: randomKey(t)}

	for _, alg := range []keysetDomain.Algorithm{keysetDomain.AESGCM, keysetDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			mk, err := NewRawMasterKey(material, alg, NewCipherFactory())
			require.NoError(t, err)
			assert.Equal(t, "key1", mk.ID())

			ciphertext, err := mk.Encrypt([]byte("payload"), nil)
			require.NoError(t, err)
			assert.Len(t, ciphertext, 12+len("payload")+16)

			plaintext, err := mk.Decrypt(ciphertext, nil)
			require.NoError(t, err)
			assert.Equal(t, []byte("payload"), plaintext)

			_, err = mk.Decrypt(ciphertext[:5], nil)
			assert.ErrorIs(t, err, keysetDomain.ErrDecryptionFailed)
			assert.ErrorIs(t, err, apperrors.ErrCryptographic)
		})
	}

	t.Run("empty id", func(t *testing.T) {
		_, err := NewRawMasterKey(&keysetDomain.KeyMaterial{Key: randomKey(t)}, keysetDomain.AESGCM, NewCipherFactory())
		assert.ErrorIs(t, err, keysetDomain.ErrMasterKeyIDEmpty)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := NewRawMasterKey(material, keysetDomain.Algorithm("rot13"), NewCipherFactory())
		assert.ErrorIs(t, err, keysetDomain.ErrUnsupportedAlgorithm)
	})
}

func TestRawMasterKey_Fingerprint(t *testing.T) {
	key := randomKey(t)
	build := func(id string, key []byte, alg keysetDomain.Algorithm) *RawMasterKey {
		mk, err := NewRawMasterKey(&keysetDomain.KeyMaterial{ID: id, Key: key}, alg, NewCipherFactory())
		require.NoError(t, err)
		return mk
	}

	base := build("key1", key, keysetDomain.AESGCM)
	assert.Len(t, base.Fingerprint(), 16)
	assert.Equal(t, base.Fingerprint(), build("key1", key, keysetDomain.AESGCM).Fingerprint())
	assert.Equal(t, base.Fingerprint(), build("renamed", key, keysetDomain.AESGCM).Fingerprint())
	assert.NotEqual(t, base.Fingerprint(), build("key1", randomKey(t), keysetDomain.AESGCM).Fingerprint())
	assert.NotEqual(t, base.Fingerprint(), build("key1", key, keysetDomain.ChaCha20).Fingerprint())
}

func TestChainResolver(t *testing.T) {
	chain := newTestChain(t)
	resolve := ChainResolver(chain, keysetDomain.AESGCM, NewCipherFactory())

	t.Run("empty id selects the active key", func(t *testing.T) {
		mk, err := resolve("")
		require.NoError(t, err)
		assert.Equal(t, "key2", mk.ID())
	})

	t.Run("explicit id", func(t *testing.T) {
		mk, err := resolve("key1")
		require.NoError(t, err)
		assert.Equal(t, "key1", mk.ID())
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := resolve("key9")
		assert.ErrorIs(t, err, keysetDomain.ErrMasterKeyNotFound)
	})

	t.Run("keys with the same id interoperate", func(t *testing.T) {
		first, err := resolve("key1")
		require.NoError(t, err)
		second, err := resolve("key1")
		require.NoError(t, err)

		ciphertext, err := first.Encrypt([]byte("payload"), []byte("ad"))
		require.NoError(t, err)
		plaintext, err := second.Decrypt(ciphertext, []byte("ad"))
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), plaintext)
	})
}
