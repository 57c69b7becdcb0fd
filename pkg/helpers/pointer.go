package helpers

// Ptr returns a pointer to the provided value.
func Ptr[T any](val T) *T {
	return &val
}

// Value returns the dereferenced value or the zero value if nil. Optional
// expense fields (note, attachment path) travel as pointers.
func Value[T any](val *T) T {
	if val == nil {
		var zero T
		return zero
	}
	return *val
}
