// Package ordindex provides an ordered index: a red-black tree over values
// ordered by a caller-supplied comparator, with ties between comparator-equal
// values broken by insertion sequence number (earlier insertions order first).
//
// The sequence tie-break gives the tree a strict total order even when the
// comparator reports distinct values as equal, which makes First, Last and
// the removal operations deterministic in the presence of duplicates. The
// sortedset and sortedmap packages are built on this index.
//
// Red-black trees are self-balancing binary search trees that maintain the
// following properties:
//  1. Every node is either red or black.
//  2. The root is black.
//  3. All leaves (nil) are black.
//  4. If a node is red, then both its children are black.
//  5. Every path from a node to its descendant nil nodes contains the same
//     number of black nodes.
//
// These properties ensure the tree remains approximately balanced,
// guaranteeing O(log n) time complexity for insertions, deletions, and
// lookups. The implementation follows the algorithms from "Introduction to
// Algorithms" (CLRS).
package ordindex

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/atomic"

	"github.com/lovelysets/containers/compare"
)

// ErrStaleHandle is returned when an operation receives a handle whose entry
// has already been removed from the index.
var ErrStaleHandle = errors.New("ordindex: handle refers to a removed entry")

// ErrMutatedDuringIteration is the panic value raised when an index is
// mutated while an in-order traversal over it is still in progress.
var ErrMutatedDuringIteration = errors.New("ordindex: index mutated during iteration")

// visitor defines the interface for tree traversal using the visitor pattern.
// Implementations should return true to continue traversal, false to stop.
type visitor[V any] interface {
	Visit(node *node[V]) bool
}

// color represents the color of a node in the red-black tree.
type color bool

// direction represents the relationship between a parent and child node.
type direction byte

// String returns a human-readable representation of the node color.
func (c color) String() string {
	switch c {
	case true:
		return "Black"
	default:
		return "Red"
	}
}

const (
	// black and red represent the two possible node colors in a red-black tree.
	// Black is represented as true for efficient nil checks (nil nodes are
	// considered black).
	black, red color = true, false

	left direction = iota
	right
)

// node is a single node in the red-black tree. Each node holds one entry
// (value plus insertion sequence number), its color, and pointers to its
// parent and children. The index is the sole owner of its nodes; handles
// held by callers never outlive the removed flag check.
type node[V any] struct {
	value   V
	seq     uint64
	color   color
	removed bool
	left    *node[V]
	right   *node[V]
	parent  *node[V]
}

// String returns a string representation of the node showing its value and color.
func (n *node[V]) String() string {
	return fmt.Sprintf("(%#v : %s)", n.value, n.color)
}

// Handle is a stable reference to an entry in an Index. It stays valid until
// the entry is removed; after that any use of the handle reports staleness
// instead of touching freed state. The zero Handle is invalid.
type Handle[V any] struct {
	n *node[V]
}

// Valid returns true if the handle refers to a live entry.
func (h Handle[V]) Valid() bool {
	return h.n != nil && !h.n.removed
}

// Value returns the entry the handle refers to. The boolean is false when
// the handle is stale or zero.
func (h Handle[V]) Value() (V, bool) {
	if !h.Valid() {
		var zeroVal V

		return zeroVal, false
	}

	return h.n.value, true
}

// Index is a red-black tree ordered by (comparator value, insertion
// sequence). Duplicate values under the comparator are permitted; the
// sequence number keeps the order strict and deterministic.
//
// An Index is not safe for concurrent use. Mutating the index while a
// traversal started by All or Entries is in progress is a programming error
// and causes the traversal to panic with ErrMutatedDuringIteration.
type Index[V any] struct {
	root *node[V]
	min  *node[V]
	max  *node[V]
	size int
	cmp  compare.Func[V]
	seq  atomic.Uint64
	gen  atomic.Uint64
}

// New creates an empty Index ordered by the given comparator.
// The comparator must be a strict weak ordering; see compare.Func.
func New[V any](cmp compare.Func[V]) *Index[V] {
	return &Index[V]{cmp: cmp}
}

// less reports whether a orders strictly before b. The comparator decides
// first; comparator-equal entries fall back to insertion sequence, so two
// distinct nodes never compare equal.
func (t *Index[V]) less(a, b *node[V]) bool {
	if c := t.cmp(a.value, b.value); c != 0 {
		return c < 0
	}

	return a.seq < b.seq
}

// Len returns the number of live entries in the index. O(1).
func (t *Index[V]) Len() int {
	return t.size
}

// Comparator returns the comparator the index orders by.
func (t *Index[V]) Comparator() compare.Func[V] {
	return t.cmp
}

// Insert adds a value to the index and returns a stable handle to the new
// entry. Insertion always succeeds: comparator-equal values are permitted
// and order after existing equal values (higher sequence number).
// Time complexity: O(log n).
func (t *Index[V]) Insert(value V) Handle[V] {
	newNode := &node[V]{value: value, seq: t.seq.Inc()}

	t.gen.Inc()
	t.size++

	if t.root == nil {
		newNode.color = black
		t.root = newNode
		t.min = newNode
		t.max = newNode

		return Handle[V]{n: newNode}
	}

	parent, dir := t.descend(newNode)
	newNode.parent = parent

	switch dir {
	case left:
		parent.left = newNode
	case right:
		parent.right = newNode
	}

	t.fixupPut(newNode)

	if t.less(newNode, t.min) {
		t.min = newNode
	}

	if t.less(t.max, newNode) {
		t.max = newNode
	}

	return Handle[V]{n: newNode}
}

// descend finds the attachment point for a new node. The new node carries
// the highest sequence number in the tree, so the search never terminates
// on an equal node.
func (t *Index[V]) descend(newNode *node[V]) (*node[V], direction) {
	this := t.root

	for {
		if t.less(newNode, this) {
			if this.left == nil {
				return this, left
			}

			this = this.left
		} else {
			if this.right == nil {
				return this, right
			}

			this = this.right
		}
	}
}

// FindByValue returns a handle to the first entry whose value compares equal
// to the given value, using the same comparator that orders the index. Among
// comparator-equal entries, "first" means lowest sequence number (earliest
// insertion). Time complexity: O(log n).
func (t *Index[V]) FindByValue(value V) (Handle[V], bool) {
	var match *node[V]

	this := t.root

	for this != nil {
		c := t.cmp(value, this.value)

		switch {
		case c < 0:
			this = this.left
		case c > 0:
			this = this.right
		default:
			// Equal. Keep descending left to find an earlier equal entry.
			match = this
			this = this.left
		}
	}

	if match == nil {
		return Handle[V]{}, false
	}

	return Handle[V]{n: match}, true
}

// Remove unlinks the entry referred to by the handle from the index.
// Returns ErrStaleHandle if the entry was already removed (or the handle is
// the zero Handle). Time complexity: O(log n).
func (t *Index[V]) Remove(h Handle[V]) error {
	if !h.Valid() {
		return ErrStaleHandle
	}

	t.unlink(h.n)

	return nil
}

// First returns a handle to the entry ordering first, or false if the index
// is empty. O(1) via the maintained minimum pointer.
func (t *Index[V]) First() (Handle[V], bool) {
	if t.min == nil {
		return Handle[V]{}, false
	}

	return Handle[V]{n: t.min}, true
}

// Last returns a handle to the entry ordering last, or false if the index
// is empty. O(1) via the maintained maximum pointer.
func (t *Index[V]) Last() (Handle[V], bool) {
	if t.max == nil {
		return Handle[V]{}, false
	}

	return Handle[V]{n: t.max}, true
}

// RemoveFirst removes and returns the entry ordering first.
// The boolean is false if the index is empty. Time complexity: O(log n).
func (t *Index[V]) RemoveFirst() (V, bool) {
	if t.min == nil {
		var zeroVal V

		return zeroVal, false
	}

	value := t.min.value
	t.unlink(t.min)

	return value, true
}

// RemoveLast removes and returns the entry ordering last.
// The boolean is false if the index is empty. Time complexity: O(log n).
func (t *Index[V]) RemoveLast() (V, bool) {
	if t.max == nil {
		var zeroVal V

		return zeroVal, false
	}

	value := t.max.value
	t.unlink(t.max)

	return value, true
}

// collectVisitor gathers the nodes satisfying a predicate during an
// in-order traversal. Removal happens after the traversal completes;
// nodes are never unlinked mid-walk.
type collectVisitor[V any] struct {
	predicate func(V) bool
	matches   []*node[V]
}

func (v *collectVisitor[V]) Visit(n *node[V]) bool {
	if n == nil {
		return true
	}

	if !v.Visit(n.left) {
		return false
	}

	if v.predicate(n.value) {
		v.matches = append(v.matches, n)
	}

	return v.Visit(n.right)
}

// RemoveMatching removes every entry satisfying the predicate and returns
// the number removed. It first traverses the whole index collecting matches,
// then unlinks them, so the predicate never observes a partially mutated
// tree. Time complexity: O(n).
func (t *Index[V]) RemoveMatching(predicate func(V) bool) int {
	collect := &collectVisitor[V]{predicate: predicate}
	collect.Visit(t.root)

	for _, n := range collect.matches {
		t.unlink(n)
	}

	return len(collect.matches)
}

// RemoveFirstMatching removes and returns the first entry (in index order)
// satisfying the predicate. The boolean is false when nothing matches.
// The walk exits as soon as a match is found, so the common case costs
// O(log n) amortized; the worst case scans the whole index.
func (t *Index[V]) RemoveFirstMatching(predicate func(V) bool) (V, bool) {
	for n := t.min; n != nil; n = successor(n) {
		if predicate(n.value) {
			value := n.value
			t.unlink(n)

			return value, true
		}
	}

	var zeroVal V

	return zeroVal, false
}

// seqVisitor yields entries to an iterator function during an in-order
// traversal, checking on every step that the index has not been mutated
// since the traversal began.
type seqVisitor[V any] struct {
	index *Index[V]
	gen   uint64
	yield func(V) bool
}

func (v *seqVisitor[V]) Visit(n *node[V]) bool {
	if n == nil {
		return true
	}

	if !v.Visit(n.left) {
		return false
	}

	if v.index.gen.Load() != v.gen {
		panic(ErrMutatedDuringIteration)
	}

	if !v.yield(n.value) {
		return false
	}

	return v.Visit(n.right)
}

// All returns an iterator over the entries in index order. This enables
// Go's range-over-func syntax: for value := range index.All() { ... }.
//
// The index must not be mutated while the traversal is in progress; doing
// so panics with ErrMutatedDuringIteration. Callers that need to remove
// entries based on what they see should use RemoveMatching or
// RemoveFirstMatching instead.
func (t *Index[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		visit := &seqVisitor[V]{index: t, gen: t.gen.Load(), yield: yield}
		visit.Visit(t.root)
	}
}

// Entries returns all entries as a slice, in index order. O(n).
func (t *Index[V]) Entries() []V {
	if t.size == 0 {
		return nil
	}

	entries := make([]V, 0, t.size)

	for value := range t.All() {
		entries = append(entries, value)
	}

	return entries
}

// markRemoved flags every node in the subtree as removed so that handles
// held by callers turn stale when the whole index is cleared at once.
func markRemoved[V any](n *node[V]) {
	if n == nil {
		return
	}

	markRemoved(n.left)
	n.removed = true
	markRemoved(n.right)
}

// Clear removes all entries. Outstanding handles become stale. O(n).
func (t *Index[V]) Clear() {
	markRemoved(t.root)

	t.root = nil
	t.min = nil
	t.max = nil
	t.size = 0
	t.gen.Inc()
}
