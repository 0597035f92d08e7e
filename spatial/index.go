package spatial

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sph/parallel"
)

var (
	// ErrInvalidRadius is returned when the cell radius is not a positive finite number.
	ErrInvalidRadius = errors.New("spatial: radius must be > 0")
	// ErrNotSized is returned when the input length does not match the last Resize.
	ErrNotSized = errors.New("spatial: index not sized for input")
)

// Index is the hashed, key-sorted particle table with its start-index lookup.
// Buffers are allocated by Resize and reused across rebuilds.
type Index struct {
	pool *parallel.Pool

	entries []Entry
	start   []uint32
	radius  float32
	dims    int // 2 or 3 after a rebuild, 0 before
}

// NewIndex creates an empty index. Call Resize before the first rebuild.
func NewIndex(pool *parallel.Pool) *Index {
	return &Index{pool: pool}
}

// Resize allocates buffers for n particles. Existing contents are discarded.
func (ix *Index) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if cap(ix.entries) >= n {
		ix.entries = ix.entries[:n]
		ix.start = ix.start[:n]
	} else {
		ix.entries = make([]Entry, n)
		ix.start = make([]uint32, n)
	}
	ix.dims = 0
}

// Len returns the sized particle count.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Radius returns the cell size used by the last hash pass.
func (ix *Index) Radius() float32 {
	return ix.radius
}

// Entries returns the sorted entries. The slice is owned by the index.
func (ix *Index) Entries() []Entry {
	return ix.entries
}

// StartIndices returns the key to first-entry table. Unused keys hold Unset.
func (ix *Index) StartIndices() []uint32 {
	return ix.start
}

// ValidateRadius rejects a cell radius that is not positive and finite.
func ValidateRadius(radius float32) error {
	r := float64(radius)
	if !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	return nil
}

// Hash assigns every position to its cell key and clears the start table.
// Entries are left in particle order; call Sort afterwards.
func (ix *Index) Hash(positions []mgl32.Vec3, radius float32) error {
	if err := ValidateRadius(radius); err != nil {
		return err
	}
	if len(positions) != len(ix.entries) {
		return fmt.Errorf("%w: %d positions, sized for %d", ErrNotSized, len(positions), len(ix.entries))
	}

	ix.radius = radius
	ix.dims = 3
	n := uint32(len(positions))
	ix.pool.For(len(positions), func(start, end int) {
		for i := start; i < end; i++ {
			h := HashCell(CellOf(positions[i], radius))
			ix.entries[i] = Entry{Index: uint32(i), Hash: h, Key: KeyFromHash(h, n)}
			ix.start[i] = Unset
		}
	})
	return nil
}

// Hash2D is the planar variant of Hash.
func (ix *Index) Hash2D(positions []mgl32.Vec2, radius float32) error {
	if err := ValidateRadius(radius); err != nil {
		return err
	}
	if len(positions) != len(ix.entries) {
		return fmt.Errorf("%w: %d positions, sized for %d", ErrNotSized, len(positions), len(ix.entries))
	}

	ix.radius = radius
	ix.dims = 2
	n := uint32(len(positions))
	ix.pool.For(len(positions), func(start, end int) {
		for i := start; i < end; i++ {
			h := HashCell2D(CellOf2D(positions[i], radius))
			ix.entries[i] = Entry{Index: uint32(i), Hash: h, Key: KeyFromHash(h, n)}
			ix.start[i] = Unset
		}
	})
	return nil
}

// Sort orders the hashed entries by key and writes the start table.
func (ix *Index) Sort() {
	SortAndOffsets(ix.pool, ix.entries, ix.start)
}

// Rebuild runs Hash then Sort.
func (ix *Index) Rebuild(positions []mgl32.Vec3, radius float32) error {
	if err := ix.Hash(positions, radius); err != nil {
		return err
	}
	ix.Sort()
	return nil
}

// Rebuild2D runs Hash2D then Sort.
func (ix *Index) Rebuild2D(positions []mgl32.Vec2, radius float32) error {
	if err := ix.Hash2D(positions, radius); err != nil {
		return err
	}
	ix.Sort()
	return nil
}

// Candidates yields the indices of particles in the 27 cells around p.
// The result is a superset of the particles within radius of p; callers
// filter by distance. Keys shared by several neighbour cells are scanned once.
func (ix *Index) Candidates(p mgl32.Vec3) iter.Seq[int] {
	return func(yield func(int) bool) {
		if ix.dims != 3 || len(ix.entries) == 0 {
			return
		}
		centre := CellOf(p, ix.radius)
		var keys [27]uint32
		nk := 0
		for _, off := range neighbourOffsets3D {
			c := Cell{centre[0] + off[0], centre[1] + off[1], centre[2] + off[2]}
			nk = appendUnique(keys[:], nk, KeyFromHash(HashCell(c), uint32(len(ix.entries))))
		}
		ix.scan(keys[:nk], yield)
	}
}

// Candidates2D yields the indices of particles in the 9 cells around p.
func (ix *Index) Candidates2D(p mgl32.Vec2) iter.Seq[int] {
	return func(yield func(int) bool) {
		if ix.dims != 2 || len(ix.entries) == 0 {
			return
		}
		centre := CellOf2D(p, ix.radius)
		var keys [9]uint32
		nk := 0
		for _, off := range neighbourOffsets2D {
			c := Cell{centre[0] + off[0], centre[1] + off[1], 0}
			nk = appendUnique(keys[:], nk, KeyFromHash(HashCell2D(c), uint32(len(ix.entries))))
		}
		ix.scan(keys[:nk], yield)
	}
}

func appendUnique(keys []uint32, n int, key uint32) int {
	for _, k := range keys[:n] {
		if k == key {
			return n
		}
	}
	keys[n] = key
	return n + 1
}

// scan walks each key's run of sorted entries.
func (ix *Index) scan(keys []uint32, yield func(int) bool) {
	for _, key := range keys {
		i := ix.start[key]
		if i == Unset {
			continue
		}
		for j := int(i); j < len(ix.entries) && ix.entries[j].Key == key; j++ {
			if !yield(int(ix.entries[j].Index)) {
				return
			}
		}
	}
}
