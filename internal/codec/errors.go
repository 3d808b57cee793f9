package codec

import (
	"github.com/allisson/fieldcrypt/internal/errors"
)

// Codec errors.
var (
	// ErrDecryptionFailed indicates a ciphertext failed authentication: it was tampered with,
	// produced under another key, or bound to different associated data.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCryptographic, "decryption failed")

	// ErrEncryptionFailed indicates the primitive rejected the plaintext.
	ErrEncryptionFailed = errors.Wrap(errors.ErrCryptographic, "encryption failed")

	// ErrMalformedCiphertext indicates DecodeAny received a value that is not a byte buffer.
	ErrMalformedCiphertext = errors.Wrap(errors.ErrCryptographic, "malformed ciphertext input")

	// ErrInvalidAssociatedData indicates a binder returned something other than bytes or text.
	ErrInvalidAssociatedData = errors.Wrap(
		errors.ErrSerialization,
		"aad binder must return []byte or string",
	)

	// ErrInvalidUTF8 indicates text that is not valid UTF-8.
	ErrInvalidUTF8 = errors.Wrap(errors.ErrSerialization, "invalid utf-8 text")

	// ErrSerializeFailed indicates a value could not be converted to bytes.
	ErrSerializeFailed = errors.Wrap(errors.ErrSerialization, "failed to serialize value")

	// ErrDeserializeFailed indicates decrypted bytes could not be converted to a value.
	ErrDeserializeFailed = errors.Wrap(errors.ErrSerialization, "failed to deserialize value")
)
