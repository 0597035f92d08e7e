package surface

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed triangulation.yaml
var triangulationYAML []byte

var (
	// ErrInvalidParams is returned for surface settings that cannot run.
	ErrInvalidParams = errors.New("surface: invalid parameters")
	// ErrMalformedTable is returned when the triangulation table fails validation.
	ErrMalformedTable = errors.New("surface: malformed triangulation table")
	// ErrNotSized is returned when the particle count does not match the last Resize.
	ErrNotSized = errors.New("surface: sampler not sized for input")
)

// maxTrianglesPerCell bounds any marching cubes case.
const maxTrianglesPerCell = 5

// cornerOffsets are the cube corners relative to the cell origin.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
	{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1},
}

// Edge e joins corner edgeCornerA[e] to edgeCornerB[e].
var (
	edgeCornerA = [12]int{0, 1, 2, 3, 4, 5, 6, 7, 0, 1, 2, 3}
	edgeCornerB = [12]int{1, 2, 3, 0, 5, 6, 7, 4, 4, 5, 6, 7}
)

// Table maps a cube index to the edge triples of its triangles.
type Table struct {
	Triangles [256][][3]uint8
	EdgeMask  [256]uint16 // bit e set when edge e is crossed
}

type tableFile struct {
	Cases [][][]int `yaml:"cases"`
}

// ParseTable decodes and validates a triangulation table.
func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	if len(file.Cases) != 256 {
		return nil, fmt.Errorf("%w: %d cases, want 256", ErrMalformedTable, len(file.Cases))
	}

	t := &Table{}
	for c := 0; c < 256; c++ {
		t.EdgeMask[c] = crossedEdges(c)

		tris := file.Cases[c]
		if len(tris) > maxTrianglesPerCell {
			return nil, fmt.Errorf("%w: case %d has %d triangles", ErrMalformedTable, c, len(tris))
		}
		var used uint16
		t.Triangles[c] = make([][3]uint8, len(tris))
		for i, tri := range tris {
			if len(tri) != 3 {
				return nil, fmt.Errorf("%w: case %d triangle %d has %d edges", ErrMalformedTable, c, i, len(tri))
			}
			for k, e := range tri {
				if e < 0 || e >= 12 {
					return nil, fmt.Errorf("%w: case %d edge %d out of range", ErrMalformedTable, c, e)
				}
				if t.EdgeMask[c]&(1<<e) == 0 {
					return nil, fmt.Errorf("%w: case %d uses uncrossed edge %d", ErrMalformedTable, c, e)
				}
				used |= 1 << e
				t.Triangles[c][i][k] = uint8(e)
			}
		}
		if used != t.EdgeMask[c] {
			return nil, fmt.Errorf("%w: case %d leaves crossed edges unused (%012b of %012b)", ErrMalformedTable, c, used, t.EdgeMask[c])
		}
	}
	return t, nil
}

// crossedEdges returns the edges whose corners fall on opposite sides.
func crossedEdges(cubeIndex int) uint16 {
	var mask uint16
	for e := 0; e < 12; e++ {
		a := cubeIndex >> edgeCornerA[e] & 1
		b := cubeIndex >> edgeCornerB[e] & 1
		if a != b {
			mask |= 1 << e
		}
	}
	return mask
}

var (
	defaultTable     *Table
	defaultTableErr  error
	defaultTableOnce sync.Once
)

// DefaultTable returns the embedded table, parsed once.
func DefaultTable() (*Table, error) {
	defaultTableOnce.Do(func() {
		defaultTable, defaultTableErr = ParseTable(triangulationYAML)
	})
	return defaultTable, defaultTableErr
}
