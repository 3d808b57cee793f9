package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"
	"github.com/tink-crypto/tink-go/v2/tink"
)

// AEADTemplate is the key template used for randomized test keysets.
func AEADTemplate() *tinkpb.KeyTemplate {
	return aead.AES256GCMKeyTemplate()
}

// DeterministicTemplate is the key template used for deterministic test keysets.
func DeterministicTemplate() *tinkpb.KeyTemplate {
	return daead.AESSIVKeyTemplate()
}

// NewKeysetHandle generates a fresh keyset from template.
func NewKeysetHandle(t *testing.T, template *tinkpb.KeyTemplate) *keyset.Handle {
	t.Helper()

	h, err := keyset.NewHandle(template)
	require.NoError(t, err, "failed to generate keyset")
	return h
}

// WriteCleartextKeyset writes h unencrypted to a temporary JSON file and returns its path.
func WriteCleartextKeyset(t *testing.T, h *keyset.Handle) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "keyset.json")
	f, err := os.Create(path) //nolint:gosec // test file in temp dir
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	require.NoError(t, insecurecleartextkeyset.Write(h, keyset.NewJSONWriter(f)))
	return path
}

// WriteWrappedKeyset writes h encrypted with masterKey to a temporary JSON file and returns
// its path.
func WriteWrappedKeyset(t *testing.T, h *keyset.Handle, masterKey tink.AEAD) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "keyset.json")
	f, err := os.Create(path) //nolint:gosec // test file in temp dir
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	require.NoError(t, h.Write(keyset.NewJSONWriter(f), masterKey))
	return path
}

// CleartextKeysetFile generates a keyset from template and writes it unencrypted.
func CleartextKeysetFile(t *testing.T, template *tinkpb.KeyTemplate) string {
	t.Helper()
	return WriteCleartextKeyset(t, NewKeysetHandle(t, template))
}
