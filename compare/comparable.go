// Package compare provides comparator types and utilities for ordering
// and comparing values.
package compare

// Comparable is a generic interface for types that can compare themselves
// for equality. Implementations decide what equality means for the type;
// containers use it to resolve key identity where a hash alone is not enough.
type Comparable[T any] interface {
	Equals(other T) bool
}

// Equals compares two values using the Comparable interface.
// It delegates to the Equals method of the first argument.
func Equals[T any](a Comparable[T], b T) bool {
	return a.Equals(b)
}
