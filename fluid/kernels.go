package fluid

import (
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ModelParams configures SpikyModel.
type ModelParams struct {
	Radius                 float32
	Mass                   float32
	TargetDensity          float32
	PressureMultiplier     float32
	NearPressureMultiplier float32
	Viscosity              float32
}

// SpikyModel is the default ForceModel: spiky kernels for density and
// pressure with a near-density term, poly6 for viscosity.
type SpikyModel struct {
	p ModelParams

	radiusSq   float32
	spikyPow2  float32
	spikyPow3  float32
	dSpikyPow2 float32
	dSpikyPow3 float32
	poly6      float32
}

// NewSpikyModel precomputes the kernel normalisation factors.
func NewSpikyModel(p ModelParams) *SpikyModel {
	r := float64(p.Radius)
	return &SpikyModel{
		p:          p,
		radiusSq:   p.Radius * p.Radius,
		spikyPow2:  float32(15 / (2 * math.Pi * math.Pow(r, 5))),
		spikyPow3:  float32(15 / (math.Pi * math.Pow(r, 6))),
		dSpikyPow2: float32(15 / (math.Pi * math.Pow(r, 5))),
		dSpikyPow3: float32(45 / (math.Pi * math.Pow(r, 6))),
		poly6:      float32(315 / (64 * math.Pi * math.Pow(r, 9))),
	}
}

// Params returns the model configuration.
func (m *SpikyModel) Params() ModelParams {
	return m.p
}

func (m *SpikyModel) densityKernel(d float32) float32 {
	if d >= m.p.Radius {
		return 0
	}
	v := m.p.Radius - d
	return v * v * m.spikyPow2
}

func (m *SpikyModel) nearDensityKernel(d float32) float32 {
	if d >= m.p.Radius {
		return 0
	}
	v := m.p.Radius - d
	return v * v * v * m.spikyPow3
}

func (m *SpikyModel) densityDerivative(d float32) float32 {
	if d >= m.p.Radius {
		return 0
	}
	return -(m.p.Radius - d) * m.dSpikyPow2
}

func (m *SpikyModel) nearDensityDerivative(d float32) float32 {
	if d >= m.p.Radius {
		return 0
	}
	v := m.p.Radius - d
	return -v * v * m.dSpikyPow3
}

func (m *SpikyModel) viscosityKernel(d float32) float32 {
	if d >= m.p.Radius {
		return 0
	}
	v := m.radiusSq - d*d
	return v * v * v * m.poly6
}

// Density accumulates density and near density over neighbours, including i.
func (m *SpikyModel) Density(i int, v *View, candidates iter.Seq[int]) (float32, float32) {
	pos := v.Positions[i]
	var density, near float32
	for j := range candidates {
		offset := v.Positions[j].Sub(pos)
		sq := offset.Dot(offset)
		if sq > m.radiusSq {
			continue
		}
		d := float32(math.Sqrt(float64(sq)))
		density += m.p.Mass * m.densityKernel(d)
		near += m.p.Mass * m.nearDensityKernel(d)
	}
	return density, near
}

func (m *SpikyModel) pressure(density float32) float32 {
	return (density - m.p.TargetDensity) * m.p.PressureMultiplier
}

func (m *SpikyModel) nearPressure(near float32) float32 {
	return near * m.p.NearPressureMultiplier
}

// PressureForce sums the symmetric pressure gradient over neighbours.
func (m *SpikyModel) PressureForce(i int, v *View, candidates iter.Seq[int]) mgl32.Vec3 {
	pos := v.Positions[i]
	p := m.pressure(v.Densities[i])
	np := m.nearPressure(v.NearDensities[i])

	var force mgl32.Vec3
	for j := range candidates {
		if j == i {
			continue
		}
		offset := v.Positions[j].Sub(pos)
		sq := offset.Dot(offset)
		if sq > m.radiusSq {
			continue
		}
		d := float32(math.Sqrt(float64(sq)))
		dir := mgl32.Vec3{0, 1, 0}
		if d > 0 {
			dir = offset.Mul(1 / d)
		}

		if rho := v.Densities[j]; rho > 0 {
			shared := (p + m.pressure(rho)) * 0.5
			force = force.Add(dir.Mul(m.densityDerivative(d) * shared * m.p.Mass / rho))
		}
		if nearRho := v.NearDensities[j]; nearRho > 0 {
			shared := (np + m.nearPressure(nearRho)) * 0.5
			force = force.Add(dir.Mul(m.nearDensityDerivative(d) * shared * m.p.Mass / nearRho))
		}
	}
	return force
}

// ViscosityForce pulls i's velocity toward its neighbours'.
func (m *SpikyModel) ViscosityForce(i int, v *View, candidates iter.Seq[int]) mgl32.Vec3 {
	pos := v.Positions[i]
	vel := v.Velocities[i]

	var force mgl32.Vec3
	for j := range candidates {
		if j == i {
			continue
		}
		offset := v.Positions[j].Sub(pos)
		sq := offset.Dot(offset)
		if sq > m.radiusSq {
			continue
		}
		d := float32(math.Sqrt(float64(sq)))
		force = force.Add(v.Velocities[j].Sub(vel).Mul(m.viscosityKernel(d)))
	}
	return force.Mul(m.p.Viscosity)
}

// DensityAt evaluates the density field at an arbitrary point.
func (m *SpikyModel) DensityAt(p mgl32.Vec3, positions []mgl32.Vec3, candidates iter.Seq[int]) float32 {
	var density float32
	for j := range candidates {
		offset := positions[j].Sub(p)
		sq := offset.Dot(offset)
		if sq > m.radiusSq {
			continue
		}
		density += m.p.Mass * m.densityKernel(float32(math.Sqrt(float64(sq))))
	}
	return density
}
