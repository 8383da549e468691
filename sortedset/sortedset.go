// Package sortedset provides a sorted set of unique values.
//
// Uniqueness is defined by comparator equivalence, not object identity:
// a value is a duplicate if the set's comparator reports it equal to a value
// already present, and duplicate insertions are rejected. Iteration yields
// values in comparator order.
//
// A Set is not safe for concurrent use; callers needing concurrent access
// must serialize externally. Mutating the set while a traversal started by
// All or Each is in progress is a programming error and panics with
// ordindex.ErrMutatedDuringIteration.
package sortedset

import (
	"cmp"
	"fmt"
	"iter"
	"strings"

	"github.com/lovelysets/containers/compare"
	"github.com/lovelysets/containers/optional"
	"github.com/lovelysets/containers/ordindex"
)

// Set is a collection of unique values sorted by a caller-supplied
// comparator. The zero value is not usable; create sets with New or
// NewNatural.
type Set[V any] struct {
	index *ordindex.Index[V]
}

// New creates an empty Set ordered by the given comparator.
// The comparator must be a strict weak ordering; see compare.Func.
func New[V any](cmp compare.Func[V]) *Set[V] {
	return &Set[V]{index: ordindex.New(cmp)}
}

// NewNatural creates an empty Set ordered by the natural order of V.
func NewNatural[V cmp.Ordered]() *Set[V] {
	return New(compare.Natural[V]())
}

// Add inserts a value into the set. If a comparator-equal value is already
// present the set is left unchanged and Add returns false.
// Time complexity: O(log n).
func (s *Set[V]) Add(value V) bool {
	if _, found := s.index.FindByValue(value); found {
		return false
	}

	s.index.Insert(value)

	return true
}

// AddAll inserts multiple values and returns the number actually added
// (duplicates are skipped).
func (s *Set[V]) AddAll(values ...V) int {
	added := 0

	for _, value := range values {
		if s.Add(value) {
			added++
		}
	}

	return added
}

// Contains reports whether a comparator-equal value is present.
// Time complexity: O(log n).
func (s *Set[V]) Contains(value V) bool {
	_, found := s.index.FindByValue(value)

	return found
}

// Delete removes the first comparator-equal value and returns it.
// Returns None if no equal value is present. Time complexity: O(log n).
func (s *Set[V]) Delete(value V) optional.Value[V] {
	h, found := s.index.FindByValue(value)
	if !found {
		return optional.None[V]()
	}

	removed, _ := h.Value()
	_ = s.index.Remove(h)

	return optional.Some(removed)
}

// First returns the smallest value without removing it. O(1).
func (s *Set[V]) First() optional.Value[V] {
	return peek(s.index.First())
}

// Last returns the largest value without removing it. O(1).
func (s *Set[V]) Last() optional.Value[V] {
	return peek(s.index.Last())
}

// Shift removes and returns the smallest value.
// Returns None on an empty set. Time complexity: O(log n).
func (s *Set[V]) Shift() optional.Value[V] {
	if value, ok := s.index.RemoveFirst(); ok {
		return optional.Some(value)
	}

	return optional.None[V]()
}

// Pop removes and returns the largest value.
// Returns None on an empty set. Time complexity: O(log n).
func (s *Set[V]) Pop() optional.Value[V] {
	if value, ok := s.index.RemoveLast(); ok {
		return optional.Some(value)
	}

	return optional.None[V]()
}

// Reject removes every value satisfying the predicate and returns the
// number removed. The predicate sees a stable view: matches are collected
// in one traversal, then removed. Time complexity: O(n).
func (s *Set[V]) Reject(predicate func(V) bool) int {
	return s.index.RemoveMatching(predicate)
}

// RejectFirst removes and returns the first (smallest) value satisfying
// the predicate, or None if nothing matches.
func (s *Set[V]) RejectFirst(predicate func(V) bool) optional.Value[V] {
	if value, ok := s.index.RemoveFirstMatching(predicate); ok {
		return optional.Some(value)
	}

	return optional.None[V]()
}

// Select keeps only the values satisfying the predicate, removing the rest.
// Returns the number removed. Time complexity: O(n).
func (s *Set[V]) Select(predicate func(V) bool) int {
	return s.index.RemoveMatching(func(value V) bool {
		return !predicate(value)
	})
}

// All returns an iterator over the values in sorted order. This enables
// Go's range-over-func syntax: for value := range set.All() { ... }.
// The set must not be mutated while the traversal is in progress.
func (s *Set[V]) All() iter.Seq[V] {
	return s.index.All()
}

// Each applies the given function to every value in sorted order.
// Same iteration contract as All.
func (s *Set[V]) Each(f func(V)) {
	for value := range s.All() {
		f(value)
	}
}

// Entries returns all values in sorted order as a slice. O(n).
func (s *Set[V]) Entries() []V {
	return s.index.Entries()
}

// Len returns the number of values in the set. O(1).
func (s *Set[V]) Len() int {
	return s.index.Len()
}

// Empty reports whether the set has no values. O(1).
func (s *Set[V]) Empty() bool {
	return s.index.Len() == 0
}

// Clear removes all values. O(n).
func (s *Set[V]) Clear() {
	s.index.Clear()
}

// Clone creates a shallow copy of the set with the same comparator and
// the same values. O(n log n).
func (s *Set[V]) Clone() *Set[V] {
	// Fresh sequence numbers are assigned in sorted order, which preserves
	// the observable ordering exactly.
	cloned := New(s.comparator())

	for value := range s.All() {
		cloned.index.Insert(value)
	}

	return cloned
}

// String returns a representation like "SortedSet { 1, 2, 3 }".
func (s *Set[V]) String() string {
	var b strings.Builder

	b.WriteString("SortedSet {")

	first := true
	for value := range s.All() {
		if !first {
			b.WriteString(",")
		}

		fmt.Fprintf(&b, " %v", value)

		first = false
	}

	b.WriteString(" }")

	return b.String()
}

// comparator exposes the set's comparator for Clone.
func (s *Set[V]) comparator() compare.Func[V] {
	return s.index.Comparator()
}

// peek converts an index extreme lookup into an optional value.
func peek[V any](h ordindex.Handle[V], ok bool) optional.Value[V] {
	if !ok {
		return optional.None[V]()
	}

	if value, valid := h.Value(); valid {
		return optional.Some(value)
	}

	return optional.None[V]()
}
