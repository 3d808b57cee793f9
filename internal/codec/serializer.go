package codec

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"unicode/utf8"
)

// Serializer converts values to and from the plaintext bytes that get encrypted.
//
// Deterministic codecs rely on Serialize being canonical: equal values must produce equal
// bytes.
type Serializer[T any] interface {
	Serialize(value T) ([]byte, error)
	Deserialize(data []byte) (T, error)
}

type serializerFuncs[T any] struct {
	serialize   func(T) ([]byte, error)
	deserialize func([]byte) (T, error)
}

func (s serializerFuncs[T]) Serialize(value T) ([]byte, error) {
	return s.serialize(value)
}

func (s serializerFuncs[T]) Deserialize(data []byte) (T, error) {
	return s.deserialize(data)
}

// SerializerFuncs builds a Serializer from a pair of functions.
func SerializerFuncs[T any](
	serialize func(T) ([]byte, error),
	deserialize func([]byte) (T, error),
) Serializer[T] {
	return serializerFuncs[T]{serialize: serialize, deserialize: deserialize}
}

// Text serializes strings as their UTF-8 bytes.
func Text() Serializer[string] {
	return SerializerFuncs(
		func(s string) ([]byte, error) {
			if !utf8.ValidString(s) {
				return nil, ErrInvalidUTF8
			}
			return []byte(s), nil
		},
		func(data []byte) (string, error) {
			if !utf8.Valid(data) {
				return "", ErrInvalidUTF8
			}
			return string(data), nil
		},
	)
}

// Bytes passes byte slices through. Deserialize returns a copy.
func Bytes() Serializer[[]byte] {
	return SerializerFuncs(
		func(b []byte) ([]byte, error) {
			return b, nil
		},
		func(data []byte) ([]byte, error) {
			return bytes.Clone(data), nil
		},
	)
}

// JSON serializes values as canonical JSON: object keys sorted, no insignificant whitespace,
// no HTML escaping and numbers kept in their original textual form.
//
// Strings and map keys must be valid UTF-8. encoding/json would otherwise replace bad bytes
// with U+FFFD and the value would not survive a round trip.
//
// When decrypted bytes are not valid JSON and T is string or any, they are returned as text.
func JSON[T any]() Serializer[T] {
	return SerializerFuncs(canonicalJSON[T], decodeJSON[T])
}

func canonicalJSON[T any](value T) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializeFailed, err)
	}
	if !utf8.Valid(raw) || !validUTF8(reflect.ValueOf(value)) {
		return nil, ErrInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializeFailed, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializeFailed, err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func decodeJSON[T any](data []byte) (T, error) {
	var value T
	err := json.Unmarshal(data, &value)
	if err == nil {
		return value, nil
	}

	if utf8.Valid(data) {
		switch target := any(&value).(type) {
		case *string:
			*target = string(data)
			return value, nil
		case *any:
			*target = string(data)
			return value, nil
		}
	}

	var zero T
	return zero, fmt.Errorf("%w: %v", ErrDeserializeFailed, err)
}

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// validUTF8 reports whether every string json.Marshal would emit for v is valid UTF-8.
// Output of json.Marshaler implementations is checked on the marshalled bytes instead.
func validUTF8(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	t := v.Type()
	if t.Implements(jsonMarshalerType) {
		return true
	}
	if t.Implements(textMarshalerType) && v.CanInterface() {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			return true
		}
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		return err != nil || utf8.Valid(text)
	}

	switch v.Kind() {
	case reflect.String:
		return utf8.ValidString(v.String())
	case reflect.Pointer, reflect.Interface:
		return v.IsNil() || validUTF8(v.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if (!f.IsExported() && !f.Anonymous) || f.Tag.Get("json") == "-" {
				continue
			}
			if !validUTF8(v.Field(i)) {
				return false
			}
		}
	case reflect.Slice, reflect.Array:
		// byte slices are emitted as base64
		if t.Elem().Kind() == reflect.Uint8 {
			return true
		}
		for i := range v.Len() {
			if !validUTF8(v.Index(i)) {
				return false
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if !validUTF8(iter.Key()) || !validUTF8(iter.Value()) {
				return false
			}
		}
	}
	return true
}
