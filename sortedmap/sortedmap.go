// Package sortedmap provides a map with unique keys whose entries are
// simultaneously sorted by value.
//
// A Map composes two indices over one shared set of entries: a hash index
// from key to entry for O(1) lookups, and an ordered index over values for
// sorted traversal and extremes. Every live entry is reachable from both
// indices at all times; mutations update the two as one logical operation.
//
// Duplicate values are permitted across distinct keys. Among
// comparator-equal values, entries order by when they were inserted or last
// updated: updating a key's value re-ranks the entry with a fresh sequence
// number, moving it to the end of its value tier. This tie-break rule is
// part of the container's contract.
//
// A Map is not safe for concurrent use; callers needing concurrent access
// must serialize externally. Mutating the map while a traversal started by
// All or Each is in progress is a programming error and panics with
// ordindex.ErrMutatedDuringIteration.
package sortedmap

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/lovelysets/containers/compare"
	"github.com/lovelysets/containers/hashing"
	"github.com/lovelysets/containers/optional"
	"github.com/lovelysets/containers/ordindex"
	"github.com/lovelysets/containers/zero"
)

// ErrHashCollision is returned when two distinct (non-equal) keys produce
// the same hash value.
var ErrHashCollision = errors.New("sortedmap: hash collision between distinct keys")

// Key is the constraint for map keys: a key must be hashable (for the hash
// index) and comparable for equality (to resolve hash collisions). The
// hash and equality must be consistent: equal keys hash identically.
type Key[K any] interface {
	hashing.Hashable
	compare.Comparable[K]
}

// Entry is a key-value pair yielded by traversal and extreme operations.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// poolEntry is the record stored in the ordered index. The hash key is
// captured at insertion so removal paths never have to re-hash (hashing is
// the only fallible step, and it must not fail halfway through a removal).
type poolEntry[K Key[K], V any] struct {
	key     K
	value   V
	hashKey string
}

// Map is a sorted-by-value map with unique keys. Create instances with New.
type Map[K Key[K], V any] struct {
	hash  hashing.HashFunc
	cmp   compare.Func[V]
	index *ordindex.Index[poolEntry[K, V]]
	byKey map[string]ordindex.Handle[poolEntry[K, V]]
}

// New creates an empty Map. Keys are indexed using the given hash function;
// entries are ordered by the given comparator over values, which must be a
// strict weak ordering (see compare.Func).
func New[K Key[K], V any](hash hashing.HashFunc, cmp compare.Func[V]) *Map[K, V] {
	return &Map[K, V]{
		hash: hash,
		cmp:  cmp,
		index: ordindex.New(func(a, b poolEntry[K, V]) int {
			return cmp(a.value, b.value)
		}),
		byKey: make(map[string]ordindex.Handle[poolEntry[K, V]]),
	}
}

// lookup resolves a key to its handle in the ordered index.
// Returns the hash key alongside so mutating callers can reuse it.
func (m *Map[K, V]) lookup(key K) (ordindex.Handle[poolEntry[K, V]], string, bool, error) {
	hashKey, err := m.hash(key)
	if err != nil {
		return ordindex.Handle[poolEntry[K, V]]{}, "", false, err
	}

	h, ok := m.byKey[hashKey]
	if !ok {
		return ordindex.Handle[poolEntry[K, V]]{}, hashKey, false, nil
	}

	entry, _ := h.Value()
	if !entry.key.Equals(key) {
		return ordindex.Handle[poolEntry[K, V]]{}, hashKey, false, ErrHashCollision
	}

	return h, hashKey, true, nil
}

// Set inserts or updates the value for a key.
//
// If the key is new, the entry is added to both indices with a fresh
// sequence number. If the key exists, the entry is removed from the ordered
// index and re-inserted at the position dictated by the new value, again
// with a fresh sequence number: an updated entry orders after existing
// comparator-equal entries. Time complexity: O(log n).
//
// Hashing the key is the only fallible step and happens before any
// mutation, so a failed Set leaves the map untouched.
func (m *Map[K, V]) Set(key K, value V) error {
	_, err := m.put(key, value)

	return err
}

// Replace behaves like Set but returns the previous value for the key,
// or None if the key was newly created.
func (m *Map[K, V]) Replace(key K, value V) (optional.Value[V], error) {
	return m.put(key, value)
}

func (m *Map[K, V]) put(key K, value V) (optional.Value[V], error) {
	h, hashKey, found, err := m.lookup(key)
	if err != nil {
		return optional.None[V](), err
	}

	previous := optional.None[V]()

	if found {
		entry, _ := h.Value()
		previous = optional.Some(entry.value)

		_ = m.index.Remove(h)
	}

	m.byKey[hashKey] = m.index.Insert(poolEntry[K, V]{key: key, value: value, hashKey: hashKey})

	return previous, nil
}

// Get retrieves the value for the given key. Returns (value, true, nil) if
// found, (zero, false, nil) on a miss. O(1); no ordering cost.
func (m *Map[K, V]) Get(key K) (V, bool, error) {
	h, _, found, err := m.lookup(key)
	if err != nil || !found {
		return zero.Value[V](), false, err
	}

	entry, _ := h.Value()

	return entry.value, true, nil
}

// GetOrElse retrieves the value for the given key, or returns defaultValue
// if the key is absent.
func (m *Map[K, V]) GetOrElse(key K, defaultValue V) (V, error) {
	value, found, err := m.Get(key)
	if err != nil {
		return zero.Value[V](), err
	}

	if found {
		return value, nil
	}

	return defaultValue, nil
}

// Contains reports whether the key is present. O(1).
func (m *Map[K, V]) Contains(key K) (bool, error) {
	_, _, found, err := m.lookup(key)

	return found, err
}

// Delete removes the entry for the given key from both indices and returns
// its value, or None if the key is absent. The hash lookup is O(1); the
// ordered-index removal is O(log n).
func (m *Map[K, V]) Delete(key K) (optional.Value[V], error) {
	h, hashKey, found, err := m.lookup(key)
	if err != nil || !found {
		return optional.None[V](), err
	}

	entry, _ := h.Value()

	_ = m.index.Remove(h)
	delete(m.byKey, hashKey)

	return optional.Some(entry.value), nil
}

// First returns the entry with the smallest value without removing it. O(1).
func (m *Map[K, V]) First() optional.Value[Entry[K, V]] {
	return m.peek(m.index.First())
}

// Last returns the entry with the largest value without removing it. O(1).
func (m *Map[K, V]) Last() optional.Value[Entry[K, V]] {
	return m.peek(m.index.Last())
}

// FirstKey returns the key of the entry with the smallest value.
func (m *Map[K, V]) FirstKey() optional.Value[K] {
	return optional.Map(m.First(), entryKey)
}

// LastKey returns the key of the entry with the largest value.
func (m *Map[K, V]) LastKey() optional.Value[K] {
	return optional.Map(m.Last(), entryKey)
}

// FirstValue returns the smallest value.
func (m *Map[K, V]) FirstValue() optional.Value[V] {
	return optional.Map(m.First(), entryValue)
}

// LastValue returns the largest value.
func (m *Map[K, V]) LastValue() optional.Value[V] {
	return optional.Map(m.Last(), entryValue)
}

// Shift removes and returns the entry with the smallest value, updating
// both indices. Returns None on an empty map. Time complexity: O(log n).
func (m *Map[K, V]) Shift() optional.Value[Entry[K, V]] {
	entry, ok := m.index.RemoveFirst()
	if !ok {
		return optional.None[Entry[K, V]]()
	}

	delete(m.byKey, entry.hashKey)

	return optional.Some(Entry[K, V]{Key: entry.key, Value: entry.value})
}

// Pop removes and returns the entry with the largest value, updating both
// indices. Returns None on an empty map. Time complexity: O(log n).
func (m *Map[K, V]) Pop() optional.Value[Entry[K, V]] {
	entry, ok := m.index.RemoveLast()
	if !ok {
		return optional.None[Entry[K, V]]()
	}

	delete(m.byKey, entry.hashKey)

	return optional.Some(Entry[K, V]{Key: entry.key, Value: entry.value})
}

// Clear removes all entries from both indices. O(n).
func (m *Map[K, V]) Clear() {
	m.index.Clear()
	m.byKey = make(map[string]ordindex.Handle[poolEntry[K, V]])
}

// All returns an iterator over (key, value) pairs in value order. This
// enables Go's range-over-func syntax: for k, v := range m.All() { ... }.
// The map must not be mutated while the traversal is in progress.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for entry := range m.index.All() {
			if !yield(entry.key, entry.value) {
				return
			}
		}
	}
}

// Each applies the given function to every (key, value) pair in value
// order. Same iteration contract as All.
func (m *Map[K, V]) Each(f func(key K, value V)) {
	for key, value := range m.All() {
		f(key, value)
	}
}

// Entries returns all entries in value order. O(n).
func (m *Map[K, V]) Entries() []Entry[K, V] {
	if m.Len() == 0 {
		return nil
	}

	entries := make([]Entry[K, V], 0, m.Len())

	for key, value := range m.All() {
		entries = append(entries, Entry[K, V]{Key: key, Value: value})
	}

	return entries
}

// Keys returns all keys in value order. O(n).
func (m *Map[K, V]) Keys() []K {
	if m.Len() == 0 {
		return nil
	}

	keys := make([]K, 0, m.Len())

	for key := range m.All() {
		keys = append(keys, key)
	}

	return keys
}

// Values returns all values in sorted order. O(n).
func (m *Map[K, V]) Values() []V {
	if m.Len() == 0 {
		return nil
	}

	values := make([]V, 0, m.Len())

	for _, value := range m.All() {
		values = append(values, value)
	}

	return values
}

// Len returns the number of entries. O(1).
func (m *Map[K, V]) Len() int {
	return m.index.Len()
}

// Empty reports whether the map has no entries. O(1).
func (m *Map[K, V]) Empty() bool {
	return m.index.Len() == 0
}

// HashFunction returns the hash function the map indexes keys with.
func (m *Map[K, V]) HashFunction() hashing.HashFunc {
	return m.hash
}

// ValueComparator returns the comparator the map orders values by.
func (m *Map[K, V]) ValueComparator() compare.Func[V] {
	return m.cmp
}

// String returns a representation like "SortedHash { a=1, b=2 }".
func (m *Map[K, V]) String() string {
	var b strings.Builder

	b.WriteString("SortedHash {")

	first := true
	for key, value := range m.All() {
		if !first {
			b.WriteString(",")
		}

		fmt.Fprintf(&b, " %v=%v", key, value)

		first = false
	}

	b.WriteString(" }")

	return b.String()
}

func (m *Map[K, V]) peek(h ordindex.Handle[poolEntry[K, V]], ok bool) optional.Value[Entry[K, V]] {
	if !ok {
		return optional.None[Entry[K, V]]()
	}

	entry, valid := h.Value()
	if !valid {
		return optional.None[Entry[K, V]]()
	}

	return optional.Some(Entry[K, V]{Key: entry.key, Value: entry.value})
}

func entryKey[K any, V any](e Entry[K, V]) K {
	return e.Key
}

func entryValue[K any, V any](e Entry[K, V]) V {
	return e.Value
}
