package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sph/surface"
)

// SurfaceRenderer renders the extracted mesh, either filled with
// per-triangle Lambert shading or as a wireframe.
type SurfaceRenderer struct {
	Color    rl.Color
	Ambient  float32
	LightDir mgl32.Vec3 // unit vector toward the light
}

// NewSurfaceRenderer creates a new surface renderer.
func NewSurfaceRenderer() *SurfaceRenderer {
	return &SurfaceRenderer{
		Color:    rl.Color{R: 60, G: 140, B: 220, A: 255},
		Ambient:  0.35,
		LightDir: mgl32.Vec3{0.4, 1, 0.3}.Normalize(),
	}
}

// Shade returns the Lambert brightness for a triangle.
func (r *SurfaceRenderer) Shade(t surface.Triangle) float32 {
	n := t.A.Normal.Add(t.B.Normal).Add(t.C.Normal)
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	return r.Ambient + (1-r.Ambient)*max(n.Dot(r.LightDir), 0)
}

// Draw renders the filled mesh. Must be called inside BeginMode3D.
func (r *SurfaceRenderer) Draw(m *surface.Mesh) {
	for _, t := range m.Triangles() {
		rl.DrawTriangle3D(Vec3(t.A.Position), Vec3(t.B.Position), Vec3(t.C.Position), ScaleColor(r.Color, r.Shade(t)))
	}
}

// DrawWireframe renders triangle edges. Must be called inside BeginMode3D.
func (r *SurfaceRenderer) DrawWireframe(m *surface.Mesh) {
	for _, t := range m.Triangles() {
		a, b, c := Vec3(t.A.Position), Vec3(t.B.Position), Vec3(t.C.Position)
		rl.DrawLine3D(a, b, r.Color)
		rl.DrawLine3D(b, c, r.Color)
		rl.DrawLine3D(c, a, r.Color)
	}
}
