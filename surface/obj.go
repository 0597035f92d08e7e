package surface

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the mesh as Wavefront OBJ with per-vertex normals.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	tris := m.Triangles()

	fmt.Fprintf(bw, "# %d triangles\n", len(tris))
	for _, t := range tris {
		for _, v := range [3]Vertex{t.A, t.B, t.C} {
			fmt.Fprintf(bw, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
		}
	}
	for _, t := range tris {
		for _, v := range [3]Vertex{t.A, t.B, t.C} {
			fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
		}
	}
	for i := range tris {
		a := 3*i + 1
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, a+1, a+1, a+2, a+2)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing obj: %w", err)
	}
	return nil
}
