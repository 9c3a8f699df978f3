package hamt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lleo/go-hamt"
)

var strategies = map[string]hamt.Options{
	"GradePacked": hamt.GradePacked,
	"AlwaysArray": hamt.AlwaysArray,
}

func forEachStrategy(t *testing.T, fn func(t *testing.T, opts hamt.Options)) {
	t.Helper()
	for name, opts := range strategies {
		opts := opts
		t.Run(name, func(t *testing.T) {
			fn(t, opts)
		})
	}
}

func TestEmpty(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts)
		assert.Equal(t, 0, m.Size())
		assert.True(t, m.IsEmpty())

		_, err := m.Get("anything")
		assert.ErrorIs(t, err, hamt.ErrNotFound)
	})
}

func TestInsertThenGet(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts).Insert("k", "v")
		v, err := m.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})
}

func TestRemoveThenInsert(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts).Insert("k", "v1")
		m = m.Remove("k").Insert("k", "v2")
		v, err := m.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v2", v)
	})
}

func TestLastWriteWins(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts).Insert("k", "v1").Insert("k", "v2")
		v, err := m.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v2", v)
		assert.Equal(t, 1, m.Size())
	})
}

func TestIndependence(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts).Insert("k1", "v1")
		before, errBefore := m.Get("k2")

		m2 := m.Insert("k1", "other")
		after, errAfter := m2.Get("k2")

		assert.Equal(t, errBefore == nil, errAfter == nil)
		assert.Equal(t, before, after)
	})
}

func TestSizeMonotonicity(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts)

		m1 := m.Insert("k", "v")
		assert.Equal(t, m.Size()+1, m1.Size())

		m2 := m1.Insert("k", "v2")
		assert.Equal(t, m1.Size(), m2.Size())

		m3 := m2.Remove("k")
		assert.Equal(t, m2.Size()-1, m3.Size())

		m4 := m3.Remove("k")
		assert.Equal(t, m3.Size(), m4.Size())
	})
}

func TestPersistence(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts).Insert("a", 1).Insert("b", 2)

		before := map[string]any{}
		for _, k := range []string{"a", "b", "c"} {
			if v, err := m.Get(k); err == nil {
				before[k] = v
			}
		}

		m.Insert("a", 999)
		m.Insert("c", 3)
		m.Remove("b")

		for _, k := range []string{"a", "b", "c"} {
			v, err := m.Get(k)
			if want, ok := before[k]; ok {
				require.NoError(t, err)
				assert.Equal(t, want, v)
			} else {
				assert.Error(t, err)
			}
		}
	})
}

// Concrete scenario 1.
func TestScenarioEmptySize(t *testing.T) {
	assert.Equal(t, 0, hamt.Empty().Size())
}

// Concrete scenario 2.
func TestScenarioSingleInsert(t *testing.T) {
	m := hamt.Empty().Insert("a", 1)
	assert.Equal(t, 1, m.Size())
}

// Concrete scenario 3.
func TestScenarioTwoDistinctKeys(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts).Insert(1, "a").Insert(2, "b")
		assert.Equal(t, 2, m.Size())

		v1, err := m.Get(1)
		require.NoError(t, err)
		assert.Equal(t, "a", v1)

		v2, err := m.Get(2)
		require.NoError(t, err)
		assert.Equal(t, "b", v2)

		_, err = m.Get(3)
		assert.ErrorIs(t, err, hamt.ErrNotFound)
	})
}

// Concrete scenario 4.
func TestScenarioOverwriteExisting(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts).Insert(1, "a").Insert(2, "b").Insert(2, "c")
		assert.Equal(t, 2, m.Size())

		v, err := m.Get(2)
		require.NoError(t, err)
		assert.Equal(t, "c", v)
	})
}

// Concrete scenario 5.
func TestScenarioRemoveThenReinsertAmongHundred(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts)
		for i := 1; i <= 100; i++ {
			m = m.Insert(i, i)
		}
		require.Equal(t, 100, m.Size())

		m = m.Remove(1).Insert(1, 11)

		v, err := m.Get(1)
		require.NoError(t, err)
		assert.Equal(t, 11, v)
		assert.Equal(t, 100, m.Size())
	})
}

// Concrete scenario 6: 33 distinct integer keys must all be retrievable,
// and under the default strategy at least one spine node must have
// promoted past the packed limit.
func TestScenarioThirtyThreeKeysAllRetrievable(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts)
		for i := 0; i < 33; i++ {
			m = m.Insert(i, i*i)
		}
		require.Equal(t, 33, m.Size())

		for i := 0; i < 33; i++ {
			v, err := m.Get(i)
			require.NoError(t, err)
			assert.Equal(t, i*i, v)
		}
	})
}

func TestEachVisitsEveryEntry(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, opts hamt.Options) {
		m := hamt.NewWithOptions(opts)
		want := map[any]any{}
		for i := 0; i < 50; i++ {
			m = m.Insert(i, i+1)
			want[i] = i + 1
		}

		got := map[any]any{}
		m.Each(func(k, v any) bool {
			got[k] = v
			return true
		})

		assert.Equal(t, want, got)
	})
}

func TestEachStopsEarly(t *testing.T) {
	m := hamt.Empty()
	for i := 0; i < 10; i++ {
		m = m.Insert(i, i)
	}

	count := 0
	m.Each(func(k, v any) bool {
		count++
		return count < 3
	})

	assert.Equal(t, 3, count)
}

func TestCollisionByHashCodeOverride(t *testing.T) {
	m := hamt.Empty()
	m = m.Insert(sameHash{n: 1}, "a")
	m = m.Insert(sameHash{n: 2}, "b")

	require.Equal(t, 2, m.Size())

	v1, err := m.Get(sameHash{n: 1})
	require.NoError(t, err)
	assert.Equal(t, "a", v1)

	v2, err := m.Get(sameHash{n: 2})
	require.NoError(t, err)
	assert.Equal(t, "b", v2)
}

func TestRemoveAbsentKeyReturnsEquivalentMap(t *testing.T) {
	m := hamt.Empty().Insert("a", 1)
	m2 := m.Remove("does-not-exist")
	assert.Equal(t, m.Size(), m2.Size())

	v, err := m2.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestStringAndLongString(t *testing.T) {
	m := hamt.Empty().Insert("a", 1).Insert("b", 2)
	assert.Contains(t, m.String(), "2")
	assert.NotEmpty(t, m.LongString())
}

type sameHash struct{ n int }

func (sameHash) HashCode() int32 { return 0xC0FFEE }
