package commands

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
	keysetService "github.com/allisson/fieldcrypt/internal/keyset/service"
)

func TestRunCreateKeyset(t *testing.T) {
	logger := discardLogger()

	t.Run("cleartext aead", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunCreateKeyset(logger, &out, "aes256-gcm", nil))

		h, err := insecurecleartextkeyset.Read(keyset.NewJSONReader(&out))
		require.NoError(t, err)
		_, err = aead.New(h)
		assert.NoError(t, err)
	})

	t.Run("cleartext deterministic", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunCreateKeyset(logger, &out, "aes-siv", nil))

		h, err := insecurecleartextkeyset.Read(keyset.NewJSONReader(&out))
		require.NoError(t, err)
		_, err = daead.New(h)
		assert.NoError(t, err)
	})

	t.Run("wrapped", func(t *testing.T) {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)

		masterKey, err := keysetService.NewRawMasterKey(
			&keysetDomain.KeyMaterial{ID: "k1", Key: key},
			keysetDomain.ChaCha20,
			keysetService.NewCipherFactory(),
		)
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, RunCreateKeyset(logger, &out, "xchacha20-poly1305", masterKey))
		assert.Contains(t, out.String(), "encryptedKeyset")

		h, err := keyset.Read(keyset.NewJSONReader(bytes.NewReader(out.Bytes())), masterKey)
		require.NoError(t, err)
		_, err = aead.New(h)
		assert.NoError(t, err)
	})

	t.Run("unknown key type", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateKeyset(logger, &out, "des", nil)
		assert.ErrorContains(t, err, "invalid key type: des")
		assert.Empty(t, out.String())
	})
}
