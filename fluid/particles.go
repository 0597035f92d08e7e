// Package fluid implements the SPH particle state, the pluggable force model
// and the per-frame simulation pipeline.
package fluid

import "github.com/go-gl/mathgl/mgl32"

// Particles holds per-particle state as parallel slices indexed by particle.
type Particles struct {
	Positions     []mgl32.Vec3
	Velocities    []mgl32.Vec3
	Predicted     []mgl32.Vec3
	Densities     []float32
	NearDensities []float32

	// scratch written by the force passes and read by integrate
	pressure  []mgl32.Vec3
	viscosity []mgl32.Vec3
}

// Resize allocates every buffer for n particles and zeroes them.
func (p *Particles) Resize(n int) {
	p.Positions = make([]mgl32.Vec3, n)
	p.Velocities = make([]mgl32.Vec3, n)
	p.Predicted = make([]mgl32.Vec3, n)
	p.Densities = make([]float32, n)
	p.NearDensities = make([]float32, n)
	p.pressure = make([]mgl32.Vec3, n)
	p.viscosity = make([]mgl32.Vec3, n)
}

// Len returns the particle count.
func (p *Particles) Len() int {
	return len(p.Positions)
}
