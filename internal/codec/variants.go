package codec

func withDefaultName(name string, opts []Option) []Option {
	return append([]Option{WithName(name)}, opts...)
}

// EncryptedString encrypts UTF-8 text with a random-mode codec.
func EncryptedString(opts ...Option) *FieldCodec[string] {
	return NewEncrypted(Text(), withDefaultName("encrypted_string", opts)...)
}

// EncryptedBytes encrypts raw bytes with a random-mode codec.
func EncryptedBytes(opts ...Option) *FieldCodec[[]byte] {
	return NewEncrypted(Bytes(), withDefaultName("encrypted_bytes", opts)...)
}

// EncryptedJSON encrypts canonical JSON with a random-mode codec.
func EncryptedJSON[T any](opts ...Option) *FieldCodec[T] {
	return NewEncrypted(JSON[T](), withDefaultName("encrypted_json", opts)...)
}

// DeterministicEncryptedString encrypts UTF-8 text so that equal strings produce equal
// ciphertexts.
func DeterministicEncryptedString(opts ...Option) *FieldCodec[string] {
	return NewDeterministic(Text(), withDefaultName("deterministic_encrypted_string", opts)...)
}

// DeterministicEncryptedBytes encrypts raw bytes so that equal inputs produce equal
// ciphertexts.
func DeterministicEncryptedBytes(opts ...Option) *FieldCodec[[]byte] {
	return NewDeterministic(Bytes(), withDefaultName("deterministic_encrypted_bytes", opts)...)
}

// DeterministicEncryptedJSON encrypts canonical JSON so that structurally equal values
// produce equal ciphertexts.
func DeterministicEncryptedJSON[T any](opts ...Option) *FieldCodec[T] {
	return NewDeterministic(JSON[T](), withDefaultName("deterministic_encrypted_json", opts)...)
}
