package service

import (
	"github.com/tink-crypto/tink-go/v2/keyset"
	"github.com/tink-crypto/tink-go/v2/tink"
)

// Handle is resolved key material together with the primitives built from it.
//
// A keyset of AEAD keys has no deterministic primitive and a keyset of deterministic keys has
// no randomized one; the missing primitive is reported when it is requested, not when the
// handle is built. Handles are immutable and safe for concurrent use.
type Handle struct {
	name          string
	handle        *keyset.Handle
	aead          tink.AEAD
	aeadErr       error
	deterministic tink.DeterministicAEAD
	detErr        error
}

// Name returns the keyset name the handle was resolved for.
func (h *Handle) Name() string {
	return h.name
}

// KeysetHandle returns the underlying Tink keyset handle.
func (h *Handle) KeysetHandle() *keyset.Handle {
	return h.handle
}

// PrimaryKeyID returns the id of the primary key, which prefixes new ciphertexts.
func (h *Handle) PrimaryKeyID() uint32 {
	return h.handle.KeysetInfo().GetPrimaryKeyId()
}

// AEAD returns the randomized primitive or ErrAEADUnavailable.
func (h *Handle) AEAD() (tink.AEAD, error) {
	if h.aead == nil {
		return nil, h.aeadErr
	}
	return h.aead, nil
}

// DeterministicAEAD returns the deterministic primitive or ErrDeterministicUnavailable.
func (h *Handle) DeterministicAEAD() (tink.DeterministicAEAD, error) {
	if h.deterministic == nil {
		return nil, h.detErr
	}
	return h.deterministic, nil
}
