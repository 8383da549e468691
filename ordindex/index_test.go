package ordindex_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovelysets/containers/compare"
	"github.com/lovelysets/containers/ordindex"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates empty index", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		require.NotNil(t, idx)
		assert.Equal(t, 0, idx.Len())

		_, ok := idx.First()
		assert.False(t, ok)

		_, ok = idx.Last()
		assert.False(t, ok)
	})
}

func TestIndex_Insert(t *testing.T) {
	t.Parallel()

	t.Run("maintains sorted order", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())

		elements := []int{5, 2, 8, 1, 9, 3, 7, 4, 6}
		for _, elem := range elements {
			h := idx.Insert(elem)
			assert.True(t, h.Valid())
		}

		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, idx.Entries())
	})

	t.Run("permits comparator-equal values", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		idx.Insert(1)
		idx.Insert(1)
		idx.Insert(1)

		assert.Equal(t, 3, idx.Len())
		assert.Equal(t, []int{1, 1, 1}, idx.Entries())
	})

	t.Run("orders equal values by insertion sequence", func(t *testing.T) {
		t.Parallel()

		byLength := func(a, b string) int {
			return len(a) - len(b)
		}

		idx := ordindex.New(compare.Func[string](byLength))
		idx.Insert("bb")
		idx.Insert("aa")
		idx.Insert("cc")

		// All compare equal by length; insertion order decides.
		assert.Equal(t, []string{"bb", "aa", "cc"}, idx.Entries())
	})

	t.Run("returned handle reads back the value", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		h := idx.Insert(42)

		value, ok := h.Value()
		assert.True(t, ok)
		assert.Equal(t, 42, value)
	})
}

func TestIndex_FindByValue(t *testing.T) {
	t.Parallel()

	t.Run("finds existing value", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		for _, v := range []int{3, 1, 4, 1, 5} {
			idx.Insert(v)
		}

		h, found := idx.FindByValue(4)
		require.True(t, found)

		value, ok := h.Value()
		assert.True(t, ok)
		assert.Equal(t, 4, value)
	})

	t.Run("misses absent value", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		idx.Insert(1)

		_, found := idx.FindByValue(2)
		assert.False(t, found)
	})

	t.Run("returns earliest inserted among equals", func(t *testing.T) {
		t.Parallel()

		byLength := func(a, b string) int {
			return len(a) - len(b)
		}

		idx := ordindex.New(compare.Func[string](byLength))
		idx.Insert("x")
		idx.Insert("first")
		idx.Insert("later")

		h, found := idx.FindByValue("zzzzz") // any 5-char string compares equal
		require.True(t, found)

		value, _ := h.Value()
		assert.Equal(t, "first", value)
	})
}

func TestIndex_Remove(t *testing.T) {
	t.Parallel()

	t.Run("removes by handle", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		idx.Insert(1)
		h := idx.Insert(2)
		idx.Insert(3)

		require.NoError(t, idx.Remove(h))
		assert.Equal(t, 2, idx.Len())
		assert.Equal(t, []int{1, 3}, idx.Entries())
	})

	t.Run("stale handle is rejected", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		h := idx.Insert(1)

		require.NoError(t, idx.Remove(h))
		assert.False(t, h.Valid())

		err := idx.Remove(h)
		require.ErrorIs(t, err, ordindex.ErrStaleHandle)

		_, ok := h.Value()
		assert.False(t, ok)
	})

	t.Run("zero handle is rejected", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())

		var h ordindex.Handle[int]

		err := idx.Remove(h)
		require.ErrorIs(t, err, ordindex.ErrStaleHandle)
	})

	t.Run("other handles survive a removal", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		handles := make([]ordindex.Handle[int], 0, 10)

		for i := range 10 {
			handles = append(handles, idx.Insert(i))
		}

		require.NoError(t, idx.Remove(handles[5]))

		for i, h := range handles {
			if i == 5 {
				assert.False(t, h.Valid())

				continue
			}

			value, ok := h.Value()
			assert.True(t, ok)
			assert.Equal(t, i, value)
		}
	})
}

func TestIndex_FirstLast(t *testing.T) {
	t.Parallel()

	t.Run("tracks extremes through mutations", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())

		for _, v := range []int{5, 1, 9, 3, 7} {
			idx.Insert(v)
		}

		first, ok := idx.First()
		require.True(t, ok)
		firstVal, _ := first.Value()
		assert.Equal(t, 1, firstVal)

		last, ok := idx.Last()
		require.True(t, ok)
		lastVal, _ := last.Value()
		assert.Equal(t, 9, lastVal)

		// Remove the extremes and check the cache follows.
		require.NoError(t, idx.Remove(first))
		require.NoError(t, idx.Remove(last))

		first, _ = idx.First()
		firstVal, _ = first.Value()
		assert.Equal(t, 3, firstVal)

		last, _ = idx.Last()
		lastVal, _ = last.Value()
		assert.Equal(t, 7, lastVal)
	})

	t.Run("single element is both extremes", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		idx.Insert(42)

		first, _ := idx.First()
		last, _ := idx.Last()

		firstVal, _ := first.Value()
		lastVal, _ := last.Value()
		assert.Equal(t, 42, firstVal)
		assert.Equal(t, 42, lastVal)
	})
}

func TestIndex_RemoveFirstLast(t *testing.T) {
	t.Parallel()

	t.Run("drains in order from the front", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		for _, v := range []int{3, 1, 2} {
			idx.Insert(v)
		}

		drained := make([]int, 0, 3)

		for {
			value, ok := idx.RemoveFirst()
			if !ok {
				break
			}

			drained = append(drained, value)
		}

		assert.Equal(t, []int{1, 2, 3}, drained)
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("drains in order from the back", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		for _, v := range []int{3, 1, 2} {
			idx.Insert(v)
		}

		drained := make([]int, 0, 3)

		for {
			value, ok := idx.RemoveLast()
			if !ok {
				break
			}

			drained = append(drained, value)
		}

		assert.Equal(t, []int{3, 2, 1}, drained)
	})

	t.Run("empty index signals empty", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())

		_, ok := idx.RemoveFirst()
		assert.False(t, ok)

		_, ok = idx.RemoveLast()
		assert.False(t, ok)
	})
}

func TestIndex_RemoveMatching(t *testing.T) {
	t.Parallel()

	t.Run("removes all matches", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		for i := range 10 {
			idx.Insert(i)
		}

		removed := idx.RemoveMatching(func(v int) bool { return v%2 == 1 })
		assert.Equal(t, 5, removed)
		assert.Equal(t, []int{0, 2, 4, 6, 8}, idx.Entries())
	})

	t.Run("no matches removes nothing", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		idx.Insert(1)
		idx.Insert(2)

		removed := idx.RemoveMatching(func(v int) bool { return v > 100 })
		assert.Equal(t, 0, removed)
		assert.Equal(t, 2, idx.Len())
	})
}

func TestIndex_RemoveFirstMatching(t *testing.T) {
	t.Parallel()

	t.Run("removes only the first match", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		for _, v := range []int{0, 1, 2, 3} {
			idx.Insert(v)
		}

		value, ok := idx.RemoveFirstMatching(func(v int) bool { return v%2 == 1 })
		require.True(t, ok)
		assert.Equal(t, 1, value)
		assert.Equal(t, []int{0, 2, 3}, idx.Entries())
	})

	t.Run("no match leaves index unchanged", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		idx.Insert(2)

		_, ok := idx.RemoveFirstMatching(func(v int) bool { return v%2 == 1 })
		assert.False(t, ok)
		assert.Equal(t, 1, idx.Len())
	})
}

func TestIndex_All(t *testing.T) {
	t.Parallel()

	t.Run("stops early when iteration breaks", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		for i := range 10 {
			idx.Insert(i)
		}

		count := 0

		for value := range idx.All() {
			count++

			if value == 5 {
				break
			}
		}

		assert.Equal(t, 6, count)
	})

	t.Run("panics on mutation during iteration", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		for i := range 5 {
			idx.Insert(i)
		}

		assert.PanicsWithValue(t, ordindex.ErrMutatedDuringIteration, func() {
			for range idx.All() {
				idx.Insert(100)
			}
		})
	})

	t.Run("restartable after completion", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		idx.Insert(1)
		idx.Insert(2)

		for range 2 {
			got := make([]int, 0, 2)
			for v := range idx.All() {
				got = append(got, v)
			}

			assert.Equal(t, []int{1, 2}, got)
		}
	})
}

func TestIndex_Clear(t *testing.T) {
	t.Parallel()

	t.Run("empties the index and stales handles", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		h := idx.Insert(1)
		idx.Insert(2)

		idx.Clear()

		assert.Equal(t, 0, idx.Len())
		assert.False(t, h.Valid())
		assert.Nil(t, idx.Entries())

		_, ok := idx.First()
		assert.False(t, ok)
	})

	t.Run("index is usable after clear", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		idx.Insert(1)
		idx.Clear()
		idx.Insert(2)

		assert.Equal(t, []int{2}, idx.Entries())
	})
}

func TestIndex_StressTest(t *testing.T) {
	t.Parallel()

	t.Run("handles many insertions and deletions", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())
		handles := make([]ordindex.Handle[int], 0, 1000)

		for i := range 1000 {
			handles = append(handles, idx.Insert(i))
		}

		assert.Equal(t, 1000, idx.Len())

		for i := 0; i < 1000; i += 2 {
			require.NoError(t, idx.Remove(handles[i]))
		}

		assert.Equal(t, 500, idx.Len())

		// Remaining entries stay sorted and complete.
		prev := -1
		count := 0

		for v := range idx.All() {
			assert.Greater(t, v, prev)
			assert.Equal(t, 1, v%2)

			prev = v
			count++
		}

		assert.Equal(t, 500, count)
	})

	t.Run("reverse insertion still iterates sorted", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())

		for i := 999; i >= 0; i-- {
			idx.Insert(i)
		}

		prev := -1
		for v := range idx.All() {
			assert.Greater(t, v, prev)
			prev = v
		}
	})

	t.Run("extremes stay correct through churn", func(t *testing.T) {
		t.Parallel()

		idx := ordindex.New(compare.Natural[int]())

		for i := range 100 {
			idx.Insert(i)
		}

		for range 40 {
			_, ok := idx.RemoveFirst()
			require.True(t, ok)

			_, ok = idx.RemoveLast()
			require.True(t, ok)
		}

		first, ok := idx.First()
		require.True(t, ok)
		firstVal, _ := first.Value()
		assert.Equal(t, 40, firstVal)

		last, ok := idx.Last()
		require.True(t, ok)
		lastVal, _ := last.Value()
		assert.Equal(t, 59, lastVal)
	})
}

func BenchmarkIndex_Insert(b *testing.B) {
	idx := ordindex.New(compare.Natural[int]())

	b.ResetTimer()

	for i := range b.N {
		idx.Insert(i)
	}
}

func BenchmarkIndex_FindByValue(b *testing.B) {
	idx := ordindex.New(compare.Natural[int]())

	for i := range 1000 {
		idx.Insert(i)
	}

	b.ResetTimer()

	for i := range b.N {
		_, _ = idx.FindByValue(i % 1000)
	}
}

func ExampleIndex_All() {
	idx := ordindex.New(compare.Natural[int]())

	idx.Insert(5)
	idx.Insert(2)
	idx.Insert(8)
	idx.Insert(1)

	for value := range idx.All() {
		fmt.Println(value)
	}

	// Output:
	// 1
	// 2
	// 5
	// 8
}
