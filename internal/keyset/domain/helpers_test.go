package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubMasterKey is a MasterKey that only carries an identity.
type stubMasterKey struct {
	id string
}

func (s stubMasterKey) ID() string { return s.id }

func (s stubMasterKey) Encrypt(plaintext, _ []byte) ([]byte, error) { return plaintext, nil }

func (s stubMasterKey) Decrypt(ciphertext, _ []byte) ([]byte, error) { return ciphertext, nil }

// fingerprintedMasterKey is a stubMasterKey that also reports a fingerprint.
type fingerprintedMasterKey struct {
	stubMasterKey
	fingerprint string
}

func (f fingerprintedMasterKey) Fingerprint() string { return f.fingerprint }

// writeKeysetFile creates an empty placeholder keyset file; descriptors only stat the path.
func writeKeysetFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	return path
}
