// Package domain defines keyset configuration for field-level encryption: named keyset
// entries, validated descriptors, the registry that maps names to descriptors and the
// master keys used to unwrap encrypted keysets.
package domain

import (
	"fmt"
	"os"
)

// Entry is the raw configuration of one keyset as supplied by the configuration layer.
type Entry struct {
	// Path is the location of the keyset file in Tink's JSON keyset format.
	Path string
	// Cleartext reports whether the keyset material is stored unwrapped.
	Cleartext bool
	// MasterKey unwraps the keyset; required when Cleartext is false, forbidden otherwise.
	MasterKey MasterKey
}

// Config maps keyset names to their entries.
type Config map[string]Entry

// CacheKey identifies resolved key material. Two descriptors with the same CacheKey
// resolve to the same handle.
type CacheKey struct {
	Name        string
	Location    string
	Wrapped     bool
	MasterKeyID string
	// MasterKeyFingerprint is set when the master key implements Fingerprinter.
	MasterKeyFingerprint string
}

// String returns a flat representation suitable for single-flight grouping.
func (k CacheKey) String() string {
	return fmt.Sprintf(
		"%s\x00%s\x00%t\x00%s\x00%s",
		k.Name,
		k.Location,
		k.Wrapped,
		k.MasterKeyID,
		k.MasterKeyFingerprint,
	)
}

// Descriptor is a validated, immutable keyset definition.
type Descriptor struct {
	name      string
	location  string
	masterKey MasterKey
	wrapped   bool
}

// NewDescriptor validates entry and returns the descriptor for the named keyset.
//
// The location must reference an existing regular file. Wrapped keysets require a master
// key with a non-empty ID; cleartext keysets must not carry one.
func NewDescriptor(name string, entry Entry) (*Descriptor, error) {
	if entry.Path == "" {
		return nil, fmt.Errorf("%w: keyset %q", ErrKeysetPathEmpty, name)
	}

	info, err := os.Stat(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKeysetFileNotFound, entry.Path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrKeysetFileNotFound, entry.Path)
	}

	if !entry.Cleartext && entry.MasterKey == nil {
		return nil, fmt.Errorf("%w: keyset %q", ErrMasterKeyRequired, name)
	}
	if entry.Cleartext && entry.MasterKey != nil {
		return nil, fmt.Errorf("%w: keyset %q", ErrUnexpectedMasterKey, name)
	}
	if entry.MasterKey != nil && entry.MasterKey.ID() == "" {
		return nil, fmt.Errorf("%w: keyset %q", ErrMasterKeyIDEmpty, name)
	}

	return &Descriptor{
		name:      name,
		location:  entry.Path,
		masterKey: entry.MasterKey,
		wrapped:   !entry.Cleartext,
	}, nil
}

// Name returns the keyset name.
func (d *Descriptor) Name() string {
	return d.name
}

// Location returns the keyset file path.
func (d *Descriptor) Location() string {
	return d.location
}

// Wrapped reports whether the keyset material is encrypted with a master key.
func (d *Descriptor) Wrapped() bool {
	return d.wrapped
}

// MasterKey returns the master key for wrapped keysets and nil for cleartext ones.
func (d *Descriptor) MasterKey() MasterKey {
	return d.masterKey
}

// CacheKey returns the key under which the resolved handle is memoized.
func (d *Descriptor) CacheKey() CacheKey {
	key := CacheKey{
		Name:     d.name,
		Location: d.location,
		Wrapped:  d.wrapped,
	}
	if d.masterKey != nil {
		key.MasterKeyID = d.masterKey.ID()
		if fp, ok := d.masterKey.(Fingerprinter); ok {
			key.MasterKeyFingerprint = fp.Fingerprint()
		}
	}
	return key
}
