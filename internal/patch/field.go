// Package patch models optional fields of partial updates.
package patch

import "encoding/json"

// Field distinguishes a field that was absent from an update (Set false), one
// explicitly set to null (Set and Null) and one given a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Value returns a Field holding v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that clears the stored value.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON is only called for keys present in the payload, which is what
// makes absence observable.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// Ptr returns nil for null or absent fields and a pointer to the value otherwise.
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// Column returns the value to write to a nullable column: untyped nil for
// null, the value otherwise.
func (f Field[T]) Column() any {
	if f.Null {
		return nil
	}
	return f.Value
}
