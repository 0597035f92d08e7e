package surface

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sph/parallel"
)

// Vertex is a surface point with its outward normal.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// Triangle is three vertices wound counter-clockwise seen from outside.
type Triangle struct {
	A, B, C Vertex
}

// TriangleSize is the size of one Triangle in bytes.
const TriangleSize = int64(unsafe.Sizeof(Triangle{}))

// DrawArgs mirrors the argument block of a non-indexed indirect draw.
type DrawArgs struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// Mesh is an append-only triangle buffer with a fixed capacity.
// Appends past the capacity are counted as dropped.
type Mesh struct {
	triangles []Triangle
	next      atomic.Int64
	dropped   atomic.Int64
}

// NewMesh allocates a mesh that can hold capacity triangles.
func NewMesh(capacity int) *Mesh {
	return &Mesh{triangles: make([]Triangle, max(capacity, 0))}
}

// Reset empties the mesh without releasing storage.
func (m *Mesh) Reset() {
	m.next.Store(0)
	m.dropped.Store(0)
}

// Append reserves a slot atomically and writes t. Safe for concurrent use.
func (m *Mesh) Append(t Triangle) bool {
	i := m.next.Add(1) - 1
	if i >= int64(len(m.triangles)) {
		m.dropped.Add(1)
		return false
	}
	m.triangles[i] = t
	return true
}

// Capacity returns the maximum number of triangles.
func (m *Mesh) Capacity() int {
	return len(m.triangles)
}

// Count returns the number of triangles stored.
func (m *Mesh) Count() int {
	return int(min(m.next.Load(), int64(len(m.triangles))))
}

// Dropped returns the number of triangles discarded for lack of capacity.
func (m *Mesh) Dropped() int {
	return int(m.dropped.Load())
}

// Triangles returns the stored triangles. The slice is owned by the mesh.
func (m *Mesh) Triangles() []Triangle {
	return m.triangles[:m.Count()]
}

// DrawArgs returns the indirect draw arguments for the stored triangles.
func (m *Mesh) DrawArgs() DrawArgs {
	return DrawArgs{VertexCount: uint32(3 * m.Count()), InstanceCount: 1}
}

// Extractor runs marching cubes over a Field.
type Extractor struct {
	table *Table
	pool  *parallel.Pool
}

// NewExtractor creates an extractor using table.
func NewExtractor(table *Table, pool *parallel.Pool) *Extractor {
	return &Extractor{table: table, pool: pool}
}

// Extract resets mesh and appends the triangles of the iso-surface of f.
// A corner counts as inside when its value is strictly above iso.
func (e *Extractor) Extract(f *Field, iso float32, mesh *Mesh) {
	mesh.Reset()
	g := f.Grid
	cx, cy := g.Dims[0]-1, g.Dims[1]-1

	e.pool.For(g.NumCells(), func(start, end int) {
		for c := start; c < end; c++ {
			x := c % cx
			y := (c / cx) % cy
			z := c / (cx * cy)
			e.march(f, iso, x, y, z, mesh)
		}
	})
}

func (e *Extractor) march(f *Field, iso float32, x, y, z int, mesh *Mesh) {
	var values [8]float32
	cubeIndex := 0
	for i, off := range cornerOffsets {
		values[i] = f.At(x+off[0], y+off[1], z+off[2])
		if values[i] > iso {
			cubeIndex |= 1 << i
		}
	}

	tris := e.table.Triangles[cubeIndex]
	if len(tris) == 0 {
		return
	}

	var verts [12]Vertex
	mask := e.table.EdgeMask[cubeIndex]
	for edge := 0; edge < 12; edge++ {
		if mask&(1<<edge) == 0 {
			continue
		}
		a, b := edgeCornerA[edge], edgeCornerB[edge]
		oa, ob := cornerOffsets[a], cornerOffsets[b]
		t := interpolation(values[a], values[b], iso)

		pa := f.Grid.Point(x+oa[0], y+oa[1], z+oa[2])
		pb := f.Grid.Point(x+ob[0], y+ob[1], z+ob[2])
		ga := f.Gradient(x+oa[0], y+oa[1], z+oa[2])
		gb := f.Gradient(x+ob[0], y+ob[1], z+ob[2])

		verts[edge] = Vertex{
			Position: pa.Add(pb.Sub(pa).Mul(t)),
			Normal:   normalize(ga.Add(gb.Sub(ga).Mul(t)).Mul(-1)),
		}
	}

	for _, tri := range tris {
		mesh.Append(orient(Triangle{A: verts[tri[0]], B: verts[tri[1]], C: verts[tri[2]]}))
	}
}

// interpolation returns where along an edge the field crosses iso.
func interpolation(a, b, iso float32) float32 {
	d := b - a
	if float32(math.Abs(float64(d))) < 1e-6 {
		return 0.5
	}
	return min(max((iso-a)/d, 0), 1)
}

// orient swaps B and C when the face normal disagrees with the vertex normals.
func orient(t Triangle) Triangle {
	face := t.B.Position.Sub(t.A.Position).Cross(t.C.Position.Sub(t.A.Position))
	avg := t.A.Normal.Add(t.B.Normal).Add(t.C.Normal)
	if face.Dot(avg) < 0 {
		t.B, t.C = t.C, t.B
	}
	return t
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}
