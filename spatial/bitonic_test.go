package spatial

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sph/parallel"
)

func randomEntries(rng *rand.Rand, n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		k := uint32(0)
		if n > 0 {
			k = uint32(rng.Intn(n))
		}
		entries[i] = Entry{Index: uint32(i), Hash: k * 7, Key: k}
	}
	return entries
}

func keysOf(entries []Entry) []uint32 {
	out := make([]uint32, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {5, 8}, {1024, 1024}, {1025, 2048},
	}
	for _, tc := range tests {
		if got := NextPowerOfTwo(tc.n); got != tc.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestSort_Sizes(t *testing.T) {
	pool := parallel.NewPool(4)
	defer pool.Close()
	rng := rand.New(rand.NewSource(1))

	for _, n := range []int{0, 1, 2, 3, 5, 17, 64, 1000, 1024, 1025, 4097} {
		entries := randomEntries(rng, n)
		want := keysOf(entries)
		slices.Sort(want)

		Sort(pool, entries)

		assert.Equal(t, want, keysOf(entries), "n=%d", n)

		// Sorting permutes, it never duplicates or loses entries.
		seen := make([]bool, n)
		for _, e := range entries {
			require.False(t, seen[e.Index], "n=%d index %d twice", n, e.Index)
			seen[e.Index] = true
			assert.Equal(t, e.Key*7, e.Hash)
		}
	}
}

func TestSort_AlreadySortedAndReversed(t *testing.T) {
	const n = 777
	asc := make([]Entry, n)
	desc := make([]Entry, n)
	for i := 0; i < n; i++ {
		asc[i] = Entry{Index: uint32(i), Key: uint32(i)}
		desc[i] = Entry{Index: uint32(i), Key: uint32(n - 1 - i)}
	}

	Sort(nil, asc)
	Sort(nil, desc)

	assert.True(t, slices.IsSortedFunc(asc, func(a, b Entry) int { return int(a.Key) - int(b.Key) }))
	assert.True(t, slices.IsSortedFunc(desc, func(a, b Entry) int { return int(a.Key) - int(b.Key) }))
}

func TestWriteOffsets_StartIndexProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 500
	entries := randomEntries(rng, n)
	start := make([]uint32, n)
	for i := range start {
		start[i] = Unset
	}

	SortAndOffsets(nil, entries, start)

	require.Equal(t, uint32(0), start[entries[0].Key])
	present := map[uint32]bool{}
	for i, e := range entries {
		present[e.Key] = true
		if i > 0 && e.Key != entries[i-1].Key {
			assert.Equal(t, uint32(i), start[e.Key])
		}
	}
	for key, s := range start {
		if !present[uint32(key)] {
			assert.Equal(t, Unset, s, "key %d has no entries", key)
		}
	}
}

func BenchmarkSort(b *testing.B) {
	pool := parallel.NewPool(0)
	defer pool.Close()
	rng := rand.New(rand.NewSource(1))
	src := randomEntries(rng, 100_000)
	entries := make([]Entry, len(src))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(entries, src)
		Sort(pool, entries)
	}
}
