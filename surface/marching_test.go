package surface

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sph/parallel"
)

func unitCellField(t *testing.T) *Field {
	t.Helper()
	g, err := GridFor(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 2)
	require.NoError(t, err)
	return NewField(g)
}

func extractor(t *testing.T, pool *parallel.Pool) *Extractor {
	t.Helper()
	table, err := DefaultTable()
	require.NoError(t, err)
	return NewExtractor(table, pool)
}

func TestExtract_ConstantFields(t *testing.T) {
	e := extractor(t, nil)
	g, err := GridFor(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 6)
	require.NoError(t, err)
	mesh := NewMesh(5 * g.NumCells())

	f := NewField(g)
	e.Extract(f, 1, mesh)
	assert.Zero(t, mesh.Count(), "all below iso")

	for i := range f.Values {
		f.Values[i] = 2
	}
	e.Extract(f, 1, mesh)
	assert.Zero(t, mesh.Count(), "all above iso")

	// Equal to iso counts as outside.
	e.Extract(f, 2, mesh)
	assert.Zero(t, mesh.Count())
}

func TestExtract_SingleCorner(t *testing.T) {
	e := extractor(t, nil)
	f := unitCellField(t)
	f.Values[f.Grid.Index(0, 0, 0)] = 1

	mesh := NewMesh(5)
	e.Extract(f, 0.5, mesh)
	require.Equal(t, 1, mesh.Count())

	tri := mesh.Triangles()[0]
	want := []mgl32.Vec3{{0.5, 0, 0}, {0, 0.5, 0}, {0, 0, 0.5}}
	for _, v := range []Vertex{tri.A, tri.B, tri.C} {
		assert.Contains(t, want, v.Position)
		// Normals point away from the dense corner.
		assert.Greater(t, v.Normal.Dot(mgl32.Vec3{1, 1, 1}), float32(0))
		assert.InDelta(t, 1, v.Normal.Len(), 1e-5)
	}

	face := tri.B.Position.Sub(tri.A.Position).Cross(tri.C.Position.Sub(tri.A.Position))
	assert.Greater(t, face.Dot(mgl32.Vec3{1, 1, 1}), float32(0), "wound counter-clockwise from outside")
}

func TestExtract_EveryCaseBounded(t *testing.T) {
	e := extractor(t, nil)
	f := unitCellField(t)

	for c := 0; c < 256; c++ {
		for i, off := range cornerOffsets {
			v := float32(0)
			if c>>i&1 == 1 {
				v = 1
			}
			f.Values[f.Grid.Index(off[0], off[1], off[2])] = v
		}
		mesh := NewMesh(maxTrianglesPerCell)
		e.Extract(f, 0.5, mesh)
		assert.Zero(t, mesh.Dropped(), "case %d", c)
		assert.Equal(t, len(e.table.Triangles[c]), mesh.Count(), "case %d", c)
		for _, tri := range mesh.Triangles() {
			for _, v := range []Vertex{tri.A, tri.B, tri.C} {
				for axis := 0; axis < 3; axis++ {
					assert.GreaterOrEqual(t, v.Position[axis], float32(0))
					assert.LessOrEqual(t, v.Position[axis], float32(1))
				}
			}
		}
	}
}

func TestExtract_DropsPastCapacity(t *testing.T) {
	pool := parallel.NewPool(4)
	defer pool.Close()
	e := extractor(t, pool)

	g, err := GridFor(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 8)
	require.NoError(t, err)
	f := NewField(g)
	for i := range f.Values {
		x, y, z := g.Coord(i)
		if (x+y+z)%2 == 0 {
			f.Values[i] = 1
		}
	}

	mesh := NewMesh(3)
	e.Extract(f, 0.5, mesh)
	assert.Equal(t, 3, mesh.Count())
	assert.Positive(t, mesh.Dropped())
	assert.Len(t, mesh.Triangles(), 3)
}

func TestMesh_ConcurrentAppend(t *testing.T) {
	mesh := NewMesh(100)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				mesh.Append(Triangle{})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, mesh.Count())
	assert.Equal(t, 60, mesh.Dropped())

	mesh.Reset()
	assert.Zero(t, mesh.Count())
	assert.Zero(t, mesh.Dropped())
}

func TestMesh_DrawArgs(t *testing.T) {
	mesh := NewMesh(4)
	mesh.Append(Triangle{})
	mesh.Append(Triangle{})
	assert.Equal(t, DrawArgs{VertexCount: 6, InstanceCount: 1}, mesh.DrawArgs())
}

func TestInterpolation(t *testing.T) {
	assert.InDelta(t, 0.25, interpolation(0, 4, 1), 1e-6)
	assert.InDelta(t, 0.5, interpolation(2, 2, 2), 1e-6, "flat edge")
	assert.InDelta(t, 1, interpolation(0, 1, 5), 1e-6, "clamped")
}

func TestOrient(t *testing.T) {
	up := mgl32.Vec3{0, 0, 1}
	tri := Triangle{
		A: Vertex{Position: mgl32.Vec3{0, 0, 0}, Normal: up},
		B: Vertex{Position: mgl32.Vec3{0, 1, 0}, Normal: up},
		C: Vertex{Position: mgl32.Vec3{1, 0, 0}, Normal: up},
	}
	got := orient(tri)
	assert.Equal(t, tri.C, got.B)
	assert.Equal(t, tri.B, got.C)
	assert.Equal(t, got, orient(got), "already oriented")
}

func TestWriteOBJ(t *testing.T) {
	mesh := NewMesh(2)
	mesh.Append(Triangle{
		A: Vertex{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}},
		B: Vertex{Position: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}},
		C: Vertex{Position: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, mesh))
	out := buf.String()

	assert.Contains(t, out, "v 1 0 0\n")
	assert.Equal(t, 3, strings.Count(out, "\nvn 0 0 1"))
	assert.Contains(t, out, "f 1//1 2//2 3//3\n")
}
