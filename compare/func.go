package compare

import (
	"cmp"

	"facette.io/natsort"
)

// Func is a three-way comparator over values of type T.
// It returns a negative number when a orders before b, zero when the two
// values are equivalent, and a positive number when a orders after b.
//
// A Func must implement a strict weak ordering: irreflexive, transitive,
// and with transitive equivalence. Containers built on a Func (see the
// ordindex, sortedset and sortedmap packages) do not verify this at
// runtime; supplying a comparator that violates the contract silently
// breaks their ordering invariants.
type Func[T any] func(a, b T) int

// Natural returns a comparator that orders values by the natural order
// of the underlying type (numeric order for numbers, lexicographic byte
// order for strings).
func Natural[T cmp.Ordered]() Func[T] {
	return func(a, b T) int {
		return cmp.Compare(a, b)
	}
}

// Reverse returns a comparator that inverts the order defined by f.
func Reverse[T any](f Func[T]) Func[T] {
	return func(a, b T) int {
		return f(b, a)
	}
}

// NaturalText returns a comparator that orders strings using natural
// sort order, where embedded numbers compare by numeric value rather
// than byte order ("item2" orders before "item10").
//
// Strings whose numeric chunks are equal in value but written differently,
// such as "item2" and "item02", compare as equivalent. In a uniqueness
// context they form one tier and the earlier insertion wins.
func NaturalText() Func[string] {
	return func(a, b string) int {
		if a == b {
			return 0
		}

		// natsort.Compare reports a <= b, so agreement in both
		// directions means the strings are naturally equivalent.
		switch ab, ba := natsort.Compare(a, b), natsort.Compare(b, a); {
		case ab && !ba:
			return -1
		case ba && !ab:
			return 1
		default:
			return 0
		}
	}
}
