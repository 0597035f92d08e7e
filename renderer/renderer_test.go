package renderer

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sph/surface"
)

func flatTriangle(n mgl32.Vec3) surface.Triangle {
	return surface.Triangle{
		A: surface.Vertex{Normal: n},
		B: surface.Vertex{Normal: n},
		C: surface.Vertex{Normal: n},
	}
}

func TestShade(t *testing.T) {
	r := NewSurfaceRenderer()
	r.LightDir = mgl32.Vec3{0, 1, 0}

	if got := r.Shade(flatTriangle(mgl32.Vec3{0, 1, 0})); !mgl32.FloatEqualThreshold(got, 1, 1e-6) {
		t.Errorf("facing light: expected 1, got %v", got)
	}
	if got := r.Shade(flatTriangle(mgl32.Vec3{0, -1, 0})); got != r.Ambient {
		t.Errorf("facing away: expected ambient %v, got %v", r.Ambient, got)
	}
	if got := r.Shade(flatTriangle(mgl32.Vec3{})); got != r.Ambient {
		t.Errorf("zero normal: expected ambient %v, got %v", r.Ambient, got)
	}
}

func TestLerpColor(t *testing.T) {
	a := rl.Color{R: 0, G: 100, B: 200, A: 255}
	b := rl.Color{R: 200, G: 100, B: 0, A: 255}

	if got := LerpColor(a, b, 0); got != a {
		t.Errorf("t=0: expected %v, got %v", a, got)
	}
	if got := LerpColor(a, b, 1); got != b {
		t.Errorf("t=1: expected %v, got %v", b, got)
	}
	if got := LerpColor(a, b, 0.5); got.R != 100 || got.B != 100 {
		t.Errorf("t=0.5: expected R=B=100, got %v", got)
	}
}

func TestScaleColorKeepsAlpha(t *testing.T) {
	got := ScaleColor(rl.Color{R: 200, G: 100, B: 50, A: 128}, 0.5)
	want := rl.Color{R: 100, G: 50, B: 25, A: 128}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestVec3(t *testing.T) {
	got := Vec3(mgl32.Vec3{1, 2, 3})
	if got.X != 1 || got.Y != 2 || got.Z != 3 {
		t.Errorf("unexpected conversion: %v", got)
	}
}
