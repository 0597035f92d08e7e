package surface

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridFor(t *testing.T) {
	g, err := GridFor(mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{2, 1, 1}, 9)
	require.NoError(t, err)

	assert.Equal(t, [3]int{9, 5, 5}, g.Dims)
	assert.InDelta(t, 0.25, g.Step[0], 1e-6)
	assert.InDelta(t, 0.25, g.Step[1], 1e-6)
	assert.Equal(t, 9*5*5, g.NumPoints())
	assert.Equal(t, 8*4*4, g.NumCells())
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, g.Point(0, 0, 0))
	assert.InDelta(t, 1, g.Point(8, 4, 4).X(), 1e-6)

	x, y, z := g.Coord(g.Index(3, 2, 4))
	assert.Equal(t, []int{3, 2, 4}, []int{x, y, z})
}

func TestGridFor_Invalid(t *testing.T) {
	_, err := GridFor(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 1)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = GridFor(mgl32.Vec3{}, mgl32.Vec3{1, 0, 1}, 8)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

// linearField holds v = x + 2y + 3z at every grid point.
func linearField(t *testing.T) *Field {
	t.Helper()
	g, err := GridFor(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}, 5)
	require.NoError(t, err)
	f := NewField(g)
	for i := range f.Values {
		p := g.Point(g.Coord(i))
		f.Values[i] = p.X() + 2*p.Y() + 3*p.Z()
	}
	return f
}

func TestField_Sample(t *testing.T) {
	f := linearField(t)

	for _, p := range []mgl32.Vec3{{0.1, 0.2, 0.3}, {0.9, 0.05, 0.6}, {0.5, 0.5, 0.5}} {
		assert.InDelta(t, p.X()+2*p.Y()+3*p.Z(), f.Sample(p), 1e-5, "at %v", p)
	}

	// Outside the grid clamps to the border.
	assert.InDelta(t, f.Sample(mgl32.Vec3{1, 1, 1}), f.Sample(mgl32.Vec3{3, 3, 3}), 1e-6)
}

func TestField_Gradient(t *testing.T) {
	f := linearField(t)

	for _, c := range [][3]int{{2, 2, 2}, {0, 0, 0}, {4, 4, 4}, {0, 3, 4}} {
		g := f.Gradient(c[0], c[1], c[2])
		assert.InDelta(t, 1, g.X(), 1e-4, "at %v", c)
		assert.InDelta(t, 2, g.Y(), 1e-4, "at %v", c)
		assert.InDelta(t, 3, g.Z(), 1e-4, "at %v", c)
	}
}

func TestField_AtClamps(t *testing.T) {
	f := linearField(t)
	assert.Equal(t, f.At(0, 0, 0), f.At(-3, -1, -9))
	assert.Equal(t, f.At(4, 4, 4), f.At(10, 10, 10))
}
