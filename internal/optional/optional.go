// Package optional provides a tri-state field for partial updates: a JSON
// key that is absent means "leave the stored value alone", an explicit
// null means "clear it", and a value means "set it". Pointer types alone
// cannot express the first distinction.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field wraps a value that may be absent, explicitly null, or set.
// The zero Field is absent.
type Field[T any] struct {
	set   bool
	valid bool
	value T
}

// Of returns a Field set to v.
func Of[T any](v T) Field[T] {
	return Field[T]{set: true, valid: true, value: v}
}

// Null returns a Field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{set: true}
}

// Unset returns an absent Field.
func Unset[T any]() Field[T] {
	return Field[T]{}
}

// IsSet reports whether the key was present at all (value or null).
func (f Field[T]) IsSet() bool {
	return f.set
}

// IsNull reports whether the key was present as an explicit null.
func (f Field[T]) IsNull() bool {
	return f.set && !f.valid
}

// Value returns the wrapped value; ok is false when the field is absent
// or null.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.set && f.valid
}

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// which is what makes the absent state observable: the zero Field stays
// unset.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(data, []byte("null")) {
		f.valid = false
		var zero T
		f.value = zero
		return nil
	}
	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.valid = true
	return nil
}

// MarshalJSON renders null for absent and null states; callers that need
// key omission should keep Fields out of response types.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || !f.valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
