package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
	"github.com/allisson/fieldcrypt/internal/testutil"
)

func newDescriptor(t *testing.T, name string, entry keysetDomain.Entry) *keysetDomain.Descriptor {
	t.Helper()
	d, err := keysetDomain.NewDescriptor(name, entry)
	require.NoError(t, err)
	return d
}

func newRawMasterKey(t *testing.T, id string) *RawMasterKey {
	t.Helper()
	mk, err := NewRawMasterKey(
		&keysetDomain.KeyMaterial{ID: id, Key: randomKey(t)},
		keysetDomain.AESGCM,
		NewCipherFactory(),
	)
	require.NoError(t, err)
	return mk
}

func TestFileSource_Resolve(t *testing.T) {
	ctx := context.Background()
	source := NewFileSource(nil)

	t.Run("cleartext AEAD keyset", func(t *testing.T) {
		kh := testutil.NewKeysetHandle(t, testutil.AEADTemplate())
		path := testutil.WriteCleartextKeyset(t, kh)

		h, err := source.Resolve(ctx, newDescriptor(t, "default", keysetDomain.Entry{Path: path, Cleartext: true}))
		require.NoError(t, err)
		assert.Equal(t, "default", h.Name())
		assert.Equal(t, kh.KeysetInfo().GetPrimaryKeyId(), h.PrimaryKeyID())

		primitive, err := h.AEAD()
		require.NoError(t, err)
		ciphertext, err := primitive.Encrypt([]byte("alice"), nil)
		require.NoError(t, err)
		plaintext, err := primitive.Decrypt(ciphertext, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("alice"), plaintext)

		_, err = h.DeterministicAEAD()
		assert.ErrorIs(t, err, keysetDomain.ErrDeterministicUnavailable)
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	})

	t.Run("cleartext deterministic keyset", func(t *testing.T) {
		path := testutil.CleartextKeysetFile(t, testutil.DeterministicTemplate())

		h, err := source.Resolve(ctx, newDescriptor(t, "lookup", keysetDomain.Entry{Path: path, Cleartext: true}))
		require.NoError(t, err)

		primitive, err := h.DeterministicAEAD()
		require.NoError(t, err)
		first, err := primitive.EncryptDeterministically([]byte("alice"), nil)
		require.NoError(t, err)
		second, err := primitive.EncryptDeterministically([]byte("alice"), nil)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		_, err = h.AEAD()
		assert.ErrorIs(t, err, keysetDomain.ErrAEADUnavailable)
	})

	t.Run("wrapped keyset", func(t *testing.T) {
		mk := newRawMasterKey(t, "key1")
		kh := testutil.NewKeysetHandle(t, testutil.AEADTemplate())
		path := testutil.WriteWrappedKeyset(t, kh, mk)

		h, err := source.Resolve(ctx, newDescriptor(t, "default", keysetDomain.Entry{Path: path, MasterKey: mk}))
		require.NoError(t, err)
		assert.Equal(t, kh.KeysetInfo().GetPrimaryKeyId(), h.PrimaryKeyID())

		_, err = h.AEAD()
		assert.NoError(t, err)
	})

	t.Run("wrapped keyset with the wrong master key", func(t *testing.T) {
		kh := testutil.NewKeysetHandle(t, testutil.AEADTemplate())
		path := testutil.WriteWrappedKeyset(t, kh, newRawMasterKey(t, "key1"))

		_, err := source.Resolve(ctx, newDescriptor(t, "default", keysetDomain.Entry{
			Path:      path,
			MasterKey: newRawMasterKey(t, "key1"),
		}))
		assert.ErrorIs(t, err, keysetDomain.ErrInvalidKeyset)
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	})

	t.Run("cleartext keyset read as wrapped", func(t *testing.T) {
		path := testutil.CleartextKeysetFile(t, testutil.AEADTemplate())

		_, err := source.Resolve(ctx, newDescriptor(t, "default", keysetDomain.Entry{
			Path:      path,
			MasterKey: newRawMasterKey(t, "key1"),
		}))
		assert.ErrorIs(t, err, keysetDomain.ErrInvalidKeyset)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keyset.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

		_, err := source.Resolve(ctx, newDescriptor(t, "default", keysetDomain.Entry{Path: path, Cleartext: true}))
		assert.ErrorIs(t, err, keysetDomain.ErrInvalidKeyset)
	})

	t.Run("file removed after validation", func(t *testing.T) {
		path := testutil.CleartextKeysetFile(t, testutil.AEADTemplate())
		d := newDescriptor(t, "default", keysetDomain.Entry{Path: path, Cleartext: true})
		require.NoError(t, os.Remove(path))

		_, err := source.Resolve(ctx, d)
		assert.ErrorIs(t, err, keysetDomain.ErrKeysetFileNotFound)
	})
}
