package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNew(t *testing.T) {
	cam := New(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{2, 2, 1})

	// Should look at the target from outside the box
	if cam.Target != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected target (0,1,0), got %v", cam.Target)
	}
	if d := cam.Position().Sub(cam.Target).Len(); math.Abs(float64(d-cam.Distance)) > 1e-4 {
		t.Errorf("eye distance = %f, want %f", d, cam.Distance)
	}
	if cam.Distance <= 3 {
		t.Errorf("expected camera outside the box, distance %f", cam.Distance)
	}
}

func TestPositionAxes(t *testing.T) {
	cam := New(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	cam.Yaw, cam.Pitch, cam.Distance = 0, 0, 2

	p := cam.Position()
	if math.Abs(float64(p.X()-2)) > 1e-5 || math.Abs(float64(p.Y())) > 1e-5 || math.Abs(float64(p.Z())) > 1e-5 {
		t.Errorf("yaw 0 pitch 0: got %v, want (2,0,0)", p)
	}

	cam.Yaw = math.Pi / 2
	p = cam.Position()
	if math.Abs(float64(p.Z()-2)) > 1e-5 {
		t.Errorf("yaw pi/2: got %v, want (0,0,2)", p)
	}
}

func TestOrbitClampsPitch(t *testing.T) {
	cam := New(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})

	cam.Orbit(0, 10)
	if cam.Pitch != maxPitch {
		t.Errorf("pitch = %f, want %f", cam.Pitch, maxPitch)
	}
	cam.Orbit(0, -20)
	if cam.Pitch != -maxPitch {
		t.Errorf("pitch = %f, want %f", cam.Pitch, -maxPitch)
	}
}

func TestOrbitWrapsYaw(t *testing.T) {
	cam := New(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	cam.Yaw = 0

	cam.Orbit(-0.5, 0)
	want := float32(2*math.Pi - 0.5)
	if math.Abs(float64(cam.Yaw-want)) > 1e-5 {
		t.Errorf("yaw = %f, want %f", cam.Yaw, want)
	}
}

func TestZoomClamps(t *testing.T) {
	cam := New(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})

	testCases := []struct {
		name   string
		factor float32
		want   float32
	}{
		{"zoom in past min", 1000, cam.MinDistance},
		{"zoom out past max", 0.0001, cam.MaxDistance},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cam.ZoomBy(tc.factor)
			if cam.Distance != tc.want {
				t.Errorf("distance = %f, want %f", cam.Distance, tc.want)
			}
		})
	}

	before := cam.Distance
	cam.ZoomBy(0)
	if cam.Distance != before {
		t.Errorf("zero factor changed distance to %f", cam.Distance)
	}
}

func TestReset(t *testing.T) {
	cam := New(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	yaw, pitch, dist := cam.Yaw, cam.Pitch, cam.Distance

	cam.Orbit(1, 0.3)
	cam.ZoomBy(2)
	cam.Reset()

	if cam.Yaw != yaw || cam.Pitch != pitch || cam.Distance != dist {
		t.Errorf("reset got (%f,%f,%f), want (%f,%f,%f)", cam.Yaw, cam.Pitch, cam.Distance, yaw, pitch, dist)
	}
}

func TestViewLooksAtTarget(t *testing.T) {
	cam := New(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1})

	// The target maps onto the negative z axis in view space.
	v := cam.View().Mul4x1(cam.Target.Vec4(1))
	if math.Abs(float64(v.X())) > 1e-4 || math.Abs(float64(v.Y())) > 1e-4 || v.Z() >= 0 {
		t.Errorf("target in view space = %v", v)
	}
}
