package domain

import (
	"github.com/allisson/fieldcrypt/internal/errors"
)

// Keyset configuration errors. All of them are configuration problems: they are surfaced
// to the caller and never retried.
var (
	// ErrKeysetsNotConfigured indicates no registry was installed or the registry is empty.
	ErrKeysetsNotConfigured = errors.Wrap(errors.ErrConfiguration, "keysets are not configured")

	// ErrKeysetNotConfigured indicates the requested keyset name is absent from the registry.
	ErrKeysetNotConfigured = errors.Wrap(errors.ErrConfiguration, "missing keyset configuration")

	// ErrKeysetPathEmpty indicates a keyset entry without a location.
	ErrKeysetPathEmpty = errors.Wrap(errors.ErrConfiguration, "keyset path cannot be empty")

	// ErrKeysetFileNotFound indicates the keyset location does not reference a readable file.
	ErrKeysetFileNotFound = errors.Wrap(errors.ErrConfiguration, "keyset does not exist")

	// ErrMasterKeyRequired indicates a wrapped keyset was configured without a master key.
	ErrMasterKeyRequired = errors.Wrap(
		errors.ErrConfiguration,
		"encrypted keysets must specify a master key",
	)

	// ErrUnexpectedMasterKey indicates a cleartext keyset was configured with a master key.
	ErrUnexpectedMasterKey = errors.Wrap(
		errors.ErrConfiguration,
		"cleartext keysets must not specify a master key",
	)

	// ErrMasterKeyIDEmpty indicates a master key without a stable identifier.
	ErrMasterKeyIDEmpty = errors.Wrap(errors.ErrConfiguration, "master key id cannot be empty")

	// ErrInvalidKeyset indicates the keyset file could not be parsed or unwrapped.
	ErrInvalidKeyset = errors.Wrap(errors.ErrConfiguration, "invalid keyset")

	// ErrDeterministicUnavailable indicates the keyset cannot produce a deterministic primitive.
	ErrDeterministicUnavailable = errors.Wrap(
		errors.ErrConfiguration,
		"deterministic encryption not available",
	)

	// ErrAEADUnavailable indicates the keyset cannot produce a randomized AEAD primitive.
	ErrAEADUnavailable = errors.Wrap(errors.ErrConfiguration, "authenticated encryption not available")

	// ErrInvalidKeysetsFormat indicates the KEYSETS configuration string is malformed.
	ErrInvalidKeysetsFormat = errors.Wrap(errors.ErrConfiguration, "invalid keysets format")
)

// Master key errors.
var (
	// ErrMasterKeysNotSet indicates MASTER_KEYS is empty while a raw master key was requested.
	ErrMasterKeysNotSet = errors.Wrap(errors.ErrConfiguration, "master keys not set")

	// ErrActiveMasterKeyIDNotSet indicates ACTIVE_MASTER_KEY_ID is empty.
	ErrActiveMasterKeyIDNotSet = errors.Wrap(errors.ErrConfiguration, "active master key id not set")

	// ErrInvalidMasterKeysFormat indicates an entry of MASTER_KEYS is not "id:base64key".
	ErrInvalidMasterKeysFormat = errors.Wrap(errors.ErrConfiguration, "invalid master keys format")

	// ErrInvalidMasterKeyBase64 indicates a master key is not valid standard base64.
	ErrInvalidMasterKeyBase64 = errors.Wrap(errors.ErrConfiguration, "invalid master key base64")

	// ErrInvalidKeySize indicates raw key material is not 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrConfiguration, "invalid key size")

	// ErrActiveMasterKeyNotFound indicates the active master key id is not in the chain.
	ErrActiveMasterKeyNotFound = errors.Wrap(errors.ErrConfiguration, "active master key not found")

	// ErrMasterKeyNotFound indicates a keyset referenced an unknown master key id.
	ErrMasterKeyNotFound = errors.Wrap(errors.ErrConfiguration, "master key not found")

	// ErrInvalidMasterKeyURI indicates MASTER_KEY_URI could not be opened as a keeper.
	ErrInvalidMasterKeyURI = errors.Wrap(errors.ErrConfiguration, "invalid master key uri")

	// ErrUnsupportedAlgorithm indicates a master key algorithm other than aes-gcm or chacha20-poly1305.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrConfiguration, "unsupported algorithm")

	// ErrAssociatedDataUnsupported indicates a keeper-backed master key was asked to bind AAD.
	ErrAssociatedDataUnsupported = errors.Wrap(
		errors.ErrCryptographic,
		"master key does not support associated data",
	)

	// ErrDecryptionFailed indicates the master key failed to authenticate wrapped material.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCryptographic, "decryption failed")
)
