// Package surface samples the particle density onto a regular grid and
// extracts the iso-surface with marching cubes.
package surface

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Grid is a regular lattice of sample points spanning a box.
type Grid struct {
	Min  mgl32.Vec3
	Size mgl32.Vec3
	Dims [3]int     // points per axis, at least 2
	Step mgl32.Vec3 // spacing between adjacent points
}

// GridFor sizes a grid over the box starting at origin so the longest axis gets resolution
// points and the others scale with their extent.
func GridFor(origin, size mgl32.Vec3, resolution int) (Grid, error) {
	if resolution < 2 {
		return Grid{}, fmt.Errorf("%w: resolution must be >= 2, got %d", ErrInvalidParams, resolution)
	}
	longest := float32(0)
	for axis, s := range size {
		if !(s > 0) {
			return Grid{}, fmt.Errorf("%w: bounds size[%d] must be > 0, got %v", ErrInvalidParams, axis, s)
		}
		longest = max(longest, s)
	}

	g := Grid{Min: origin, Size: size}
	for axis, s := range size {
		n := int(math.Ceil(float64(resolution) * float64(s/longest)))
		g.Dims[axis] = max(n, 2)
		g.Step[axis] = s / float32(g.Dims[axis]-1)
	}
	return g, nil
}

// NumPoints returns the number of sample points.
func (g Grid) NumPoints() int {
	return g.Dims[0] * g.Dims[1] * g.Dims[2]
}

// NumCells returns the number of cubes between sample points.
func (g Grid) NumCells() int {
	return (g.Dims[0] - 1) * (g.Dims[1] - 1) * (g.Dims[2] - 1)
}

// Index flattens a point coordinate, x fastest.
func (g Grid) Index(x, y, z int) int {
	return x + g.Dims[0]*(y+g.Dims[1]*z)
}

// Coord is the inverse of Index.
func (g Grid) Coord(i int) (x, y, z int) {
	x = i % g.Dims[0]
	i /= g.Dims[0]
	y = i % g.Dims[1]
	z = i / g.Dims[1]
	return x, y, z
}

// Point returns the world position of a sample point.
func (g Grid) Point(x, y, z int) mgl32.Vec3 {
	return mgl32.Vec3{
		g.Min[0] + float32(x)*g.Step[0],
		g.Min[1] + float32(y)*g.Step[1],
		g.Min[2] + float32(z)*g.Step[2],
	}
}

// Field is a scalar value per grid point.
type Field struct {
	Grid   Grid
	Values []float32
}

// NewField allocates a zeroed field over g.
func NewField(g Grid) *Field {
	return &Field{Grid: g, Values: make([]float32, g.NumPoints())}
}

// At returns the value at a point, clamping coordinates to the grid.
func (f *Field) At(x, y, z int) float32 {
	d := f.Grid.Dims
	x = min(max(x, 0), d[0]-1)
	y = min(max(y, 0), d[1]-1)
	z = min(max(z, 0), d[2]-1)
	return f.Values[f.Grid.Index(x, y, z)]
}

// Gradient is the central difference at a point, one-sided on the border.
func (f *Field) Gradient(x, y, z int) mgl32.Vec3 {
	d := f.Grid.Dims
	var g mgl32.Vec3
	c := [3]int{x, y, z}
	for axis := 0; axis < 3; axis++ {
		lo, hi := c, c
		lo[axis] = max(c[axis]-1, 0)
		hi[axis] = min(c[axis]+1, d[axis]-1)
		span := float32(hi[axis]-lo[axis]) * f.Grid.Step[axis]
		if span > 0 {
			g[axis] = (f.At(hi[0], hi[1], hi[2]) - f.At(lo[0], lo[1], lo[2])) / span
		}
	}
	return g
}

// Sample trilinearly interpolates the field at a world position.
// Positions outside the grid are clamped to its border.
func (f *Field) Sample(p mgl32.Vec3) float32 {
	var base [3]int
	var t [3]float32
	for axis := 0; axis < 3; axis++ {
		u := (p[axis] - f.Grid.Min[axis]) / f.Grid.Step[axis]
		u = min(max(u, 0), float32(f.Grid.Dims[axis]-1))
		i := min(int(u), f.Grid.Dims[axis]-2)
		base[axis] = i
		t[axis] = u - float32(i)
	}
	x, y, z := base[0], base[1], base[2]
	c00 := lerp(f.At(x, y, z), f.At(x+1, y, z), t[0])
	c10 := lerp(f.At(x, y+1, z), f.At(x+1, y+1, z), t[0])
	c01 := lerp(f.At(x, y, z+1), f.At(x+1, y, z+1), t[0])
	c11 := lerp(f.At(x, y+1, z+1), f.At(x+1, y+1, z+1), t[0])
	return lerp(lerp(c00, c10, t[1]), lerp(c01, c11, t[1]), t[2])
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
