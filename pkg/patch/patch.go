// Package patch holds field wrappers for partial updates.
package patch

// Field is an optional update of a non-nullable column.
type Field[T any] struct {
	Set   bool
	Value T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Nullable is an optional update of a nullable column. Set with a nil Value
// clears the column.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func Value[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func Ptr[T any](v *T) Nullable[T] {
	return Nullable[T]{Set: true, Value: v}
}

// Arg returns the value to bind for a SQL parameter.
func (n Nullable[T]) Arg() any {
	if n.Value == nil {
		return nil
	}
	return *n.Value
}

// Apply returns the patched value of current.
func (n Nullable[T]) Apply(current *T) *T {
	if !n.Set {
		return current
	}
	return n.Value
}

func (f Field[T]) Apply(current T) T {
	if !f.Set {
		return current
	}
	return f.Value
}
