// Package spatial implements a fixed-radius neighbour search over particle
// positions. Positions are hashed to cells of edge length radius, the entries
// are sorted by key, and a start-index table maps each key to its first entry.
package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Hash multipliers for each axis.
const (
	hashK1 uint32 = 15823
	hashK2 uint32 = 9737333
	hashK3 uint32 = 440817
)

// Cell is an integer grid coordinate.
type Cell [3]int32

// CellOf returns the cell containing p for the given cell size.
// Negative coordinates floor toward -inf so cells straddling zero stay distinct.
func CellOf(p mgl32.Vec3, radius float32) Cell {
	return Cell{
		int32(math.Floor(float64(p[0] / radius))),
		int32(math.Floor(float64(p[1] / radius))),
		int32(math.Floor(float64(p[2] / radius))),
	}
}

// CellOf2D returns the 2D cell containing p. The z component is always 0.
func CellOf2D(p mgl32.Vec2, radius float32) Cell {
	return Cell{
		int32(math.Floor(float64(p[0] / radius))),
		int32(math.Floor(float64(p[1] / radius))),
		0,
	}
}

// HashCell hashes a 3D cell with wrapping uint32 arithmetic.
func HashCell(c Cell) uint32 {
	a := uint32(c[0]) * hashK1
	b := uint32(c[1]) * hashK2
	d := uint32(c[2]) * hashK3
	return a ^ b ^ d
}

// HashCell2D hashes the x and y components of a cell.
func HashCell2D(c Cell) uint32 {
	a := uint32(c[0]) * hashK1
	b := uint32(c[1]) * hashK2
	return a + b
}

// KeyFromHash folds a hash into [0, tableSize).
func KeyFromHash(hash, tableSize uint32) uint32 {
	return hash % tableSize
}

// neighbourOffsets3D are the 27 cells around and including the centre.
var neighbourOffsets3D = func() [27]Cell {
	var out [27]Cell
	i := 0
	for x := int32(-1); x <= 1; x++ {
		for y := int32(-1); y <= 1; y++ {
			for z := int32(-1); z <= 1; z++ {
				out[i] = Cell{x, y, z}
				i++
			}
		}
	}
	return out
}()

// neighbourOffsets2D are the 9 cells around and including the centre.
var neighbourOffsets2D = func() [9]Cell {
	var out [9]Cell
	i := 0
	for x := int32(-1); x <= 1; x++ {
		for y := int32(-1); y <= 1; y++ {
			out[i] = Cell{x, y, 0}
			i++
		}
	}
	return out
}()
