package fluid

import "github.com/go-gl/mathgl/mgl32"

// Bounds is the axis-aligned container particles collide with.
type Bounds struct {
	Center  mgl32.Vec3
	Size    mgl32.Vec3
	Damping float32 // velocity retained on reflection
	Enabled bool
}

// Min returns the lower corner.
func (b Bounds) Min() mgl32.Vec3 {
	return b.Center.Sub(b.Size.Mul(0.5))
}

// Max returns the upper corner.
func (b Bounds) Max() mgl32.Vec3 {
	return b.Center.Add(b.Size.Mul(0.5))
}

// Collide clamps pos into the box and reflects the velocity component of
// every axis that was out of range.
func (b Bounds) Collide(pos, vel mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if !b.Enabled {
		return pos, vel
	}
	lo, hi := b.Min(), b.Max()
	for axis := 0; axis < 3; axis++ {
		if pos[axis] < lo[axis] {
			pos[axis] = lo[axis]
			vel[axis] = -vel[axis] * b.Damping
		} else if pos[axis] > hi[axis] {
			pos[axis] = hi[axis]
			vel[axis] = -vel[axis] * b.Damping
		}
	}
	return pos, vel
}
