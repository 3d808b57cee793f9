// Package errors defines the error kinds shared by the codec engine, the keyset layer and the
// customers API. Packages wrap a kind with context; the HTTP layer and the metrics labels
// are derived from the kind alone.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration covers missing or inconsistent keysets and master keys. It does not
	// heal by itself and is never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrCryptographic covers authentication failures on decrypt and malformed ciphertext.
	ErrCryptographic = errors.New("cryptographic error")

	// ErrSerialization covers values that cannot be converted to or from their byte form.
	ErrSerialization = errors.New("serialization error")
)

// kinds is the order KindOf checks; codec failures come first so a cryptographic error
// wrapped by a not-found path still reports as cryptographic.
var kinds = []error{
	ErrCryptographic,
	ErrSerialization,
	ErrConfiguration,
	ErrNotFound,
	ErrConflict,
	ErrInvalidInput,
}

// KindOf returns the first error kind found in err's tree, or nil for unclassified errors.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Wrap prefixes err with message, keeping err in the chain. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is is errors.Is, so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
