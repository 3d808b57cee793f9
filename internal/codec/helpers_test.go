package codec

import (
	"testing"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
	keysetService "github.com/allisson/fieldcrypt/internal/keyset/service"
	"github.com/allisson/fieldcrypt/internal/testutil"
)

const deterministicKeyset = "deterministic"

// newTestKeyring returns an isolated keyring with a random keyset named "default" and a
// deterministic keyset named "deterministic".
func newTestKeyring(t *testing.T) *keysetService.Keyring {
	t.Helper()
	return keysetService.NewKeyring(keysetDomain.NewRegistry(keysetDomain.Config{
		keysetDomain.DefaultKeyset: {
			Path:      testutil.CleartextKeysetFile(t, testutil.AEADTemplate()),
			Cleartext: true,
		},
		deterministicKeyset: {
			Path:      testutil.CleartextKeysetFile(t, testutil.DeterministicTemplate()),
			Cleartext: true,
		},
	}), keysetService.WithCache(keysetService.NewCache()))
}

func ptr[T any](v T) *T {
	return &v
}
