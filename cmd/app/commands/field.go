package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	validation "github.com/jellydator/validation"

	"github.com/allisson/fieldcrypt/internal/codec"
	keysetService "github.com/allisson/fieldcrypt/internal/keyset/service"
	customValidation "github.com/allisson/fieldcrypt/internal/validation"
)

// FieldOptions selects the codec used by the encrypt and decrypt commands.
type FieldOptions struct {
	Keyset         string
	Mode           string
	AssociatedData string
}

func (o FieldOptions) codec(keyring *keysetService.Keyring) (*codec.FieldCodec[string], error) {
	if err := validation.Validate(o.Keyset, validation.Required, customValidation.KeysetName); err != nil {
		return nil, fmt.Errorf("invalid keyset name: %w", customValidation.WrapValidationError(err))
	}

	mode, err := parseMode(o.Mode)
	if err != nil {
		return nil, err
	}

	opts := []codec.Option{
		codec.WithKeyring(keyring),
		codec.WithKeyset(o.Keyset),
		codec.WithName("cli"),
	}
	if o.AssociatedData != "" {
		ad := o.AssociatedData
		opts = append(opts, codec.WithBinder(codec.NoArgBinder(func() any { return ad })))
	}

	if mode == codec.Deterministic {
		return codec.DeterministicEncryptedString(opts...), nil
	}
	return codec.EncryptedString(opts...), nil
}

// RunEncrypt encrypts value with the selected keyset and writes the standard base64
// ciphertext to writer.
func RunEncrypt(
	ctx context.Context,
	keyring *keysetService.Keyring,
	writer io.Writer,
	opts FieldOptions,
	value string,
) error {
	c, err := opts.codec(keyring)
	if err != nil {
		return err
	}

	ciphertext, err := c.Encode(ctx, &value)
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	_, err = fmt.Fprintln(writer, base64.StdEncoding.EncodeToString(ciphertext))
	return err
}

// RunDecrypt decodes a standard base64 ciphertext, decrypts it with the selected keyset and
// writes the plaintext to writer.
func RunDecrypt(
	ctx context.Context,
	keyring *keysetService.Keyring,
	writer io.Writer,
	opts FieldOptions,
	encoded string,
) error {
	if err := validation.Validate(encoded, validation.Required, customValidation.Base64); err != nil {
		return fmt.Errorf("invalid ciphertext: %w", customValidation.WrapValidationError(err))
	}

	c, err := opts.codec(keyring)
	if err != nil {
		return err
	}

	ciphertext, _ := base64.StdEncoding.DecodeString(encoded)
	value, err := c.Decode(ctx, ciphertext)
	if err != nil {
		return fmt.Errorf("failed to decrypt value: %w", err)
	}

	_, err = fmt.Fprintln(writer, *value)
	return err
}
