package surface

import (
	"fmt"
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/sph/parallel"
	"github.com/pthm-cable/sph/spatial"
)

// DensitySource evaluates the density field at a point from nearby particles.
// fluid.ForceModel satisfies it.
type DensitySource interface {
	DensityAt(p mgl32.Vec3, positions []mgl32.Vec3, candidates iter.Seq[int]) float32
}

// Sampler fills a Field with the particle density at every grid point.
// It keeps its own neighbour index over the positions it is given so it
// never reads the simulation's mid-frame state.
type Sampler struct {
	pool   *parallel.Pool
	source DensitySource
	radius float32
	index  *spatial.Index

	field *Field
	prev  []float32
	blend float32 // weight of the newest sample
	warm  bool    // prev holds a previous frame
}

// NewSampler creates a sampler over grid. blend in (0, 1] weights the new
// sample against the previous frame; 1 disables smoothing.
func NewSampler(grid Grid, radius, blend float32, source DensitySource, pool *parallel.Pool) (*Sampler, error) {
	if err := spatial.ValidateRadius(radius); err != nil {
		return nil, err
	}
	if !(blend > 0 && blend <= 1) {
		return nil, fmt.Errorf("%w: field_blend must be in (0,1], got %v", ErrInvalidParams, blend)
	}
	return &Sampler{
		pool:   pool,
		source: source,
		radius: radius,
		index:  spatial.NewIndex(pool),
		field:  NewField(grid),
		prev:   make([]float32, grid.NumPoints()),
		blend:  blend,
	}, nil
}

// Resize sizes the internal index for n particles and forgets history.
func (s *Sampler) Resize(n int) {
	s.index.Resize(n)
	s.warm = false
}

// ResetHistory drops the previous frame so the next sample is unblended.
func (s *Sampler) ResetHistory() {
	s.warm = false
}

// Field returns the sampled field. It is overwritten by every Sample.
func (s *Sampler) Field() *Field {
	return s.field
}

// Sample rebuilds the index over positions and evaluates every grid point.
func (s *Sampler) Sample(positions []mgl32.Vec3) error {
	if len(positions) != s.index.Len() {
		return fmt.Errorf("%w: %d positions, sized for %d", ErrNotSized, len(positions), s.index.Len())
	}
	if err := s.index.Rebuild(positions, s.radius); err != nil {
		return err
	}

	g := s.field.Grid
	values := s.field.Values
	s.pool.For(len(values), func(start, end int) {
		for i := start; i < end; i++ {
			x, y, z := g.Coord(i)
			p := g.Point(x, y, z)
			values[i] = s.source.DensityAt(p, positions, s.index.Candidates(p))
		}
	})

	s.blendHistory()
	return nil
}

// blendHistory mixes the new sample with the previous frame:
// values = blend*values + (1-blend)*prev, then prev = values.
func (s *Sampler) blendHistory() {
	n := len(s.field.Values)
	cur := blas32.Vector{N: n, Inc: 1, Data: s.field.Values}
	prev := blas32.Vector{N: n, Inc: 1, Data: s.prev}

	if s.warm && s.blend < 1 {
		blas32.Scal(1-s.blend, prev)
		blas32.Axpy(s.blend, cur, prev)
		blas32.Copy(prev, cur)
	} else {
		blas32.Copy(cur, prev)
	}
	s.warm = true
}
