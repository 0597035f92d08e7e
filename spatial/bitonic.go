package spatial

import (
	"math"
	"math/bits"

	"github.com/pthm-cable/sph/parallel"
)

// Unset marks a key with no entries in the start-index table.
const Unset uint32 = math.MaxUint32

// Entry ties a particle to the cell it was hashed into.
type Entry struct {
	Index uint32 // particle index
	Hash  uint32 // cell hash
	Key   uint32 // Hash folded into [0, n)
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Sort orders entries ascending by Key using a bitonic network.
//
// The array is treated as if padded to the next power of two with +inf keys.
// Every (stage, step) pass is one barrier-separated dispatch of
// nextPow2(n)/2 compare-exchange units; within a pass the units touch
// disjoint index pairs. Step 0 of each stage is the flip, later steps are
// half-cleaners. The result is not stable.
func Sort(pool *parallel.Pool, entries []Entry) {
	n := len(entries)
	if n < 2 {
		return
	}

	padded := NextPowerOfTwo(n)
	numStages := bits.TrailingZeros(uint(padded))
	units := padded / 2

	for stage := 0; stage < numStages; stage++ {
		for step := 0; step <= stage; step++ {
			groupWidth := 1 << (stage - step)
			groupHeight := 2*groupWidth - 1
			pool.For(units, func(start, end int) {
				for u := start; u < end; u++ {
					compareExchange(entries, u, groupWidth, groupHeight, step)
				}
			})
		}
	}
}

// compareExchange handles one unit of a bitonic pass.
func compareExchange(entries []Entry, u, groupWidth, groupHeight, step int) {
	h := u & (groupWidth - 1)
	left := h + (groupHeight+1)*(u/groupWidth)

	var rightStep int
	if step == 0 {
		rightStep = groupHeight - 2*h
	} else {
		rightStep = (groupHeight + 1) / 2
	}
	right := left + rightStep

	// Padding compares as +inf and never moves.
	if right >= len(entries) {
		return
	}

	if entries[left].Key > entries[right].Key {
		entries[left], entries[right] = entries[right], entries[left]
	}
}

// WriteOffsets records, for every key present in the sorted entries, the
// index of its first entry. Keys with no entries must already hold Unset.
func WriteOffsets(pool *parallel.Pool, entries []Entry, start []uint32) {
	pool.For(len(entries), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			key := entries[i].Key
			if i == 0 || key != entries[i-1].Key {
				start[key] = uint32(i)
			}
		}
	})
}

// SortAndOffsets sorts entries then fills start.
func SortAndOffsets(pool *parallel.Pool, entries []Entry, start []uint32) {
	Sort(pool, entries)
	WriteOffsets(pool, entries, start)
}
