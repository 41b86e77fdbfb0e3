package dto

import "encoding/json"

// Field records whether a JSON key was present in the payload. A plain pointer
// cannot tell an absent key from an explicit null; Field can.
type Field[T any] struct {
	Set   bool
	Value T
}

func NewField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
