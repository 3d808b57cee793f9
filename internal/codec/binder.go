package codec

import (
	"context"
	"fmt"
)

// Operation tells a binder whether associated data is computed for encoding or decoding.
type Operation string

const (
	// OperationEncode is set while a value is being encrypted.
	OperationEncode Operation = "encode"
	// OperationDecode is set while a ciphertext is being decrypted; no value is available.
	OperationDecode Operation = "decode"
)

// Binding is the input of a binder call.
type Binding struct {
	Keyset    string
	Operation Operation
	// Value is the plaintext on encode and nil on decode.
	Value any
}

// Binder computes the associated data bound to a ciphertext. The same bytes must be produced
// on encode and decode or decryption fails.
type Binder interface {
	Bind(ctx context.Context, b Binding) ([]byte, error)
}

// BinderFunc adapts a function that sees the whole binding. The result is normalized: []byte
// and string are used as-is, nil means no associated data, anything else is an error.
type BinderFunc func(ctx context.Context, b Binding) (any, error)

// Bind calls f and normalizes its result.
func (f BinderFunc) Bind(ctx context.Context, b Binding) ([]byte, error) {
	v, err := f(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("aad binder: %w", err)
	}
	return associatedData(v)
}

// EmptyBinder binds no context. It is the default.
func EmptyBinder() Binder {
	return BinderFunc(func(context.Context, Binding) (any, error) {
		return nil, nil
	})
}

// NoArgBinder adapts a binder that needs no input, typically a closure over a constant.
func NoArgBinder(fn func() any) Binder {
	return BinderFunc(func(context.Context, Binding) (any, error) {
		return fn(), nil
	})
}

// ContextBinder adapts a binder that derives associated data from the request context.
func ContextBinder(fn func(ctx context.Context) any) Binder {
	return BinderFunc(func(ctx context.Context, _ Binding) (any, error) {
		return fn(ctx), nil
	})
}

func associatedData(v any) ([]byte, error) {
	switch ad := v.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return ad, nil
	case string:
		return []byte(ad), nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrInvalidAssociatedData, v)
	}
}
