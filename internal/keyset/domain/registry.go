package domain

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/allisson/fieldcrypt/internal/errors"
)

// Registry maps keyset names to their configuration. Its entries are read-only once built.
//
// A descriptor is validated the first time its name is requested and reused afterwards,
// so lookups on a warm registry never touch the keyset location. Failed validations are
// not remembered.
type Registry struct {
	entries     map[string]Entry
	descriptors sync.Map // name -> *Descriptor
}

// NewRegistry copies cfg into a new registry. Entries are validated when a descriptor
// is first requested, or all at once through Validate.
func NewRegistry(cfg Config) *Registry {
	entries := make(map[string]Entry, len(cfg))
	maps.Copy(entries, cfg)
	return &Registry{entries: entries}
}

// Descriptor returns the validated descriptor for name.
//
// Returns ErrKeysetsNotConfigured when the registry is nil or empty and
// ErrKeysetNotConfigured when name is unknown.
func (r *Registry) Descriptor(name string) (*Descriptor, error) {
	if r == nil || len(r.entries) == 0 {
		return nil, ErrKeysetsNotConfigured
	}

	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeysetNotConfigured, name)
	}

	if d, ok := r.descriptors.Load(name); ok {
		return d.(*Descriptor), nil
	}

	d, err := NewDescriptor(name, entry)
	if err != nil {
		return nil, err
	}
	actual, _ := r.descriptors.LoadOrStore(name, d)
	return actual.(*Descriptor), nil
}

// Names returns the configured keyset names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.entries))
}

// Validate builds every descriptor afresh and returns all failures joined. Unlike
// Descriptor it always checks the keyset locations, so it reports files that went
// missing after first use.
func (r *Registry) Validate() error {
	if r == nil || len(r.entries) == 0 {
		return ErrKeysetsNotConfigured
	}

	var errs []error
	for _, name := range r.Names() {
		if _, err := NewDescriptor(name, r.entries[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
