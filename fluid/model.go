package fluid

import (
	"iter"

	"github.com/go-gl/mathgl/mgl32"
)

// View is the read-only particle state handed to a ForceModel during a pass.
// Positions are the positions the neighbour index was built over.
type View struct {
	Positions     []mgl32.Vec3
	Velocities    []mgl32.Vec3
	Densities     []float32
	NearDensities []float32
}

// ForceModel supplies the SPH kernel math. Candidates are a superset of the
// neighbours within the smoothing radius and may include i itself; the model
// filters by distance. Implementations must be safe for concurrent calls with
// distinct i.
type ForceModel interface {
	Density(i int, v *View, candidates iter.Seq[int]) (density, near float32)
	PressureForce(i int, v *View, candidates iter.Seq[int]) mgl32.Vec3
	ViscosityForce(i int, v *View, candidates iter.Seq[int]) mgl32.Vec3
	DensityAt(p mgl32.Vec3, positions []mgl32.Vec3, candidates iter.Seq[int]) float32
}
