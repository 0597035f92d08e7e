// Package camera provides an orbit camera around the simulation bounds.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point at a given distance.
// Yaw and pitch are in radians; pitch is kept away from the poles.
type Camera struct {
	// Target is the point the camera looks at
	Target mgl32.Vec3

	// Orbit angles
	Yaw, Pitch float32

	// Distance from target
	Distance float32

	// Field of view in degrees
	FovY float32

	// Distance constraints
	MinDistance, MaxDistance float32

	home pose
}

// pose is what Reset restores.
type pose struct {
	Yaw, Pitch, Distance float32
}

const maxPitch = math.Pi/2 - 0.05

// New creates a camera framing a box of the given size around target.
func New(target, size mgl32.Vec3) *Camera {
	extent := size.Len()
	c := &Camera{
		Target:      target,
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 6,
		Distance:    extent * 1.5,
		FovY:        45,
		MinDistance: extent * 0.25,
		MaxDistance: extent * 5,
	}
	c.home = pose{Yaw: c.Yaw, Pitch: c.Pitch, Distance: c.Distance}
	return c
}

// Position returns the eye position in world coordinates.
func (c *Camera) Position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		cp * float32(math.Cos(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cp * float32(math.Sin(float64(c.Yaw))),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Orbit rotates the camera by the given angle deltas in radians.
func (c *Camera) Orbit(dyaw, dpitch float32) {
	c.Yaw = wrapAngle(c.Yaw + dyaw)
	c.Pitch = clamp(c.Pitch+dpitch, -maxPitch, maxPitch)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float32) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the distance by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Reset returns the camera to the pose it was created with.
func (c *Camera) Reset() {
	c.Yaw = c.home.Yaw
	c.Pitch = c.home.Pitch
	c.Distance = c.home.Distance
}

// wrapAngle keeps an angle in [0, 2pi).
func wrapAngle(a float32) float32 {
	r := float32(math.Mod(float64(a), 2*math.Pi))
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
