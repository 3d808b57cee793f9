package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
)

// MasterKey is the primitive used to unwrap an encrypted keyset.
//
// It has the same shape as Tink's tink.AEAD so any Tink AEAD can act as a master key once it
// is given an identifier. ID must be stable for equivalent key material (an explicit name or
// a content hash): it is part of the keyset cache key, so two handles to the same master key
// must report the same ID to share a cache entry.
type MasterKey interface {
	ID() string
	Encrypt(plaintext, associatedData []byte) ([]byte, error)
	Decrypt(ciphertext, associatedData []byte) ([]byte, error)
}

// Fingerprinter is implemented by master keys whose ID alone does not pin the key material,
// such as chain keys named by configuration. The fingerprint is part of the cache key.
type Fingerprinter interface {
	Fingerprint() string
}

// KeyMaterial is a raw 32-byte master key and its identifier.
type KeyMaterial struct {
	ID  string
	Key []byte
}

// MasterKeyChain holds the raw master keys configured through MASTER_KEYS. Keysets name a
// key by id and an empty id selects the active one.
type MasterKeyChain struct {
	mu       sync.RWMutex
	activeID string
	keys     map[string]*KeyMaterial
}

func (m *MasterKeyChain) ActiveMasterKeyID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeID
}

func (m *MasterKeyChain) Get(id string) (*KeyMaterial, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	material, ok := m.keys[id]
	return material, ok
}

// Close zeroes every key and empties the chain.
func (m *MasterKeyChain) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, material := range m.keys {
		Zero(material.Key)
	}
	m.activeID = ""
	clear(m.keys)
}

// parseMasterKeyEntry decodes one "id:base64key" element of MASTER_KEYS.
func parseMasterKeyEntry(entry string) (*KeyMaterial, error) {
	id, encoded, ok := strings.Cut(strings.TrimSpace(entry), ":")
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, entry)
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrInvalidMasterKeyBase64, id, err)
	}
	if len(key) != 32 {
		Zero(key)
		return nil, fmt.Errorf("%w: master key %s has %d bytes, want 32", ErrInvalidKeySize, id, len(key))
	}
	return &KeyMaterial{ID: id, Key: key}, nil
}

// ParseMasterKeyChain builds a chain from MASTER_KEYS ("id1:base64key1,id2:base64key2") and
// ACTIVE_MASTER_KEY_ID. Ids are unique and the active id must be listed. Keys decoded before
// an error are zeroed.
func ParseMasterKeyChain(raw, active string) (*MasterKeyChain, error) {
	if raw == "" {
		return nil, ErrMasterKeysNotSet
	}
	if active == "" {
		return nil, ErrActiveMasterKeyIDNotSet
	}

	chain := &MasterKeyChain{activeID: active, keys: make(map[string]*KeyMaterial)}
	fail := func(err error) (*MasterKeyChain, error) {
		chain.Close()
		return nil, err
	}

	for entry := range strings.SplitSeq(raw, ",") {
		material, err := parseMasterKeyEntry(entry)
		if err != nil {
			return fail(err)
		}
		if _, dup := chain.keys[material.ID]; dup {
			Zero(material.Key)
			return fail(fmt.Errorf("%w: duplicate id %q", ErrInvalidMasterKeysFormat, material.ID))
		}
		chain.keys[material.ID] = material
	}

	if _, ok := chain.keys[active]; !ok {
		return fail(fmt.Errorf("%w: ACTIVE_MASTER_KEY_ID=%s", ErrActiveMasterKeyNotFound, active))
	}
	return chain, nil
}
