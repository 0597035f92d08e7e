package fluid

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// SpawnParams describes the initial block of particles.
type SpawnParams struct {
	Counts       [3]int
	Center       mgl32.Vec3
	Size         float32 // edge length of the spawn cube
	Jitter       float32 // radius of the random offset
	Velocity     mgl32.Vec3
	Seed         int64
	MaxParticles int // 0 = no cap
}

// Count returns min(nx*ny*nz, MaxParticles).
func (s SpawnParams) Count() int {
	n := 1
	for _, c := range s.Counts {
		if c <= 0 {
			return 0
		}
		n *= c
	}
	if s.MaxParticles > 0 && n > s.MaxParticles {
		n = s.MaxParticles
	}
	return n
}

// Spawn fills positions and velocities with a jittered grid, x-major then y then z.
// Indices beyond len(positions) are skipped. The same params always produce
// the same particles.
func Spawn(s SpawnParams, positions, velocities []mgl32.Vec3) {
	rng := rand.New(rand.NewSource(s.Seed))
	nx, ny, nz := s.Counts[0], s.Counts[1], s.Counts[2]

	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			for z := 0; z < nz; z++ {
				i := x*ny*nz + y*nz + z
				if i >= len(positions) {
					continue
				}
				offset := mgl32.Vec3{
					gridOffset(x, nx) * s.Size,
					gridOffset(y, ny) * s.Size,
					gridOffset(z, nz) * s.Size,
				}
				jit := insideUnitSphere(rng).Mul(s.Jitter)
				positions[i] = s.Center.Add(offset).Add(jit)
				velocities[i] = s.Velocity
			}
		}
	}
}

// gridOffset maps i in [0, n) to [-0.5, 0.5]. A single layer sits at 0.
func gridOffset(i, n int) float32 {
	if n <= 1 {
		return 0
	}
	return float32(i)/float32(n-1) - 0.5
}

func insideUnitSphere(rng *rand.Rand) mgl32.Vec3 {
	for {
		v := mgl32.Vec3{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
		}
		if v.Dot(v) <= 1 {
			return v
		}
	}
}
