package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// ParticleRenderer renders fluid particles as small spheres tinted by speed.
type ParticleRenderer struct {
	Radius   float32
	MaxSpeed float32 // speed mapped to the fast color
	Slow     rl.Color
	Fast     rl.Color
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(radius float32) *ParticleRenderer {
	return &ParticleRenderer{
		Radius:   radius,
		MaxSpeed: 4,
		Slow:     rl.Color{R: 40, G: 90, B: 200, A: 255},
		Fast:     rl.Color{R: 230, G: 245, B: 255, A: 255},
	}
}

// Draw renders all particles. Must be called inside BeginMode3D.
func (r *ParticleRenderer) Draw(positions, velocities []mgl32.Vec3) {
	for i, p := range positions {
		var t float32
		if i < len(velocities) && r.MaxSpeed > 0 {
			t = min(velocities[i].Len()/r.MaxSpeed, 1)
		}
		rl.DrawSphereEx(Vec3(p), r.Radius, 4, 6, LerpColor(r.Slow, r.Fast, t))
	}
}

// Vec3 converts a mathgl vector to a raylib one.
func Vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// LerpColor blends a toward b by t in [0,1].
func LerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(x, y uint8) uint8 { return uint8(float32(x) + (float32(y)-float32(x))*t) }
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// ScaleColor scales the RGB channels of c by s in [0,1].
func ScaleColor(c rl.Color, s float32) rl.Color {
	return rl.Color{R: uint8(float32(c.R) * s), G: uint8(float32(c.G) * s), B: uint8(float32(c.B) * s), A: c.A}
}
