package surface

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/parallel"
	"github.com/pthm-cable/sph/spatial"
	"github.com/pthm-cable/sph/telemetry"
)

// PhaseObserver is told when sampling and extraction begin.
type PhaseObserver interface {
	StartPhase(phase string)
}

// Params configures a Surface.
type Params struct {
	Min, Size        mgl32.Vec3 // box the grid spans
	Resolution       int        // points along the longest axis
	Radius           float32    // density kernel radius
	IsoLevel         float32
	MaxTriangleBytes int64
	FieldBlend       float32
}

// Validate reports the first unusable setting.
func (p Params) Validate() error {
	if err := spatial.ValidateRadius(p.Radius); err != nil {
		return err
	}
	if p.MaxTriangleBytes < TriangleSize {
		return fmt.Errorf("%w: max_triangle_bytes must hold at least one triangle, got %d", ErrInvalidParams, p.MaxTriangleBytes)
	}
	if !(p.FieldBlend > 0 && p.FieldBlend <= 1) {
		return fmt.Errorf("%w: field_blend must be in (0,1], got %v", ErrInvalidParams, p.FieldBlend)
	}
	_, err := GridFor(p.Min, p.Size, p.Resolution)
	return err
}

// ParamsFromConfig maps the surface section and the bounds box onto Params.
func ParamsFromConfig(cfg *config.Config) Params {
	size := cfg.Derived.BoundsSize
	return Params{
		Min:              cfg.Derived.BoundsCenter.Sub(size.Mul(0.5)),
		Size:             size,
		Resolution:       cfg.Surface.Resolution,
		Radius:           float32(cfg.Fluid.Radius),
		IsoLevel:         float32(cfg.Surface.IsoLevel),
		MaxTriangleBytes: cfg.Surface.MaxTriangleBytes,
		FieldBlend:       float32(cfg.Surface.FieldBlend),
	}
}

// Surface samples the density field and extracts its iso-surface once per frame.
type Surface struct {
	params    Params
	grid      Grid
	sampler   *Sampler
	extractor *Extractor
	mesh      *Mesh
	observer  PhaseObserver
}

// New validates params, loads the triangulation table and allocates the
// field and triangle buffer.
func New(params Params, source DensitySource, pool *parallel.Pool) (*Surface, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	table, err := DefaultTable()
	if err != nil {
		return nil, err
	}
	grid, err := GridFor(params.Min, params.Size, params.Resolution)
	if err != nil {
		return nil, err
	}
	sampler, err := NewSampler(grid, params.Radius, params.FieldBlend, source, pool)
	if err != nil {
		return nil, err
	}

	return &Surface{
		params:    params,
		grid:      grid,
		sampler:   sampler,
		extractor: NewExtractor(table, pool),
		mesh:      NewMesh(triangleCapacity(grid, params.MaxTriangleBytes)),
	}, nil
}

// triangleCapacity is the worst case of five triangles per cell, clamped to budget.
func triangleCapacity(g Grid, budget int64) int {
	want := int64(maxTrianglesPerCell) * int64(g.NumCells())
	if want*TriangleSize <= budget {
		return int(want)
	}
	capped := budget / TriangleSize
	slog.Warn("triangle buffer exceeds budget, clamping",
		"cells", g.NumCells(),
		"wanted_bytes", want*TriangleSize,
		"budget_bytes", budget,
		"capacity", capped,
	)
	return int(capped)
}

// Resize sizes the sampler for n particles.
func (s *Surface) Resize(n int) {
	s.sampler.Resize(n)
}

// SetObserver installs a phase observer. nil disables phase reporting.
func (s *Surface) SetObserver(o PhaseObserver) {
	s.observer = o
}

// SetIsoLevel changes the threshold used by the next Update.
func (s *Surface) SetIsoLevel(iso float32) {
	s.params.IsoLevel = iso
}

// IsoLevel returns the current threshold.
func (s *Surface) IsoLevel() float32 {
	return s.params.IsoLevel
}

// ResetHistory forgets the blended field, e.g. after the particles were respawned.
func (s *Surface) ResetHistory() {
	s.sampler.ResetHistory()
}

// Update samples the field over positions and rebuilds the mesh.
func (s *Surface) Update(positions []mgl32.Vec3) error {
	if s.observer != nil {
		s.observer.StartPhase(telemetry.PhaseFieldSample)
	}
	if err := s.sampler.Sample(positions); err != nil {
		return fmt.Errorf("sampling field: %w", err)
	}

	if s.observer != nil {
		s.observer.StartPhase(telemetry.PhaseSurfaceExtract)
	}
	s.extractor.Extract(s.sampler.Field(), s.params.IsoLevel, s.mesh)
	return nil
}

// Grid returns the sampling grid.
func (s *Surface) Grid() Grid { return s.grid }

// Field returns the last sampled field.
func (s *Surface) Field() *Field { return s.sampler.Field() }

// Mesh returns the last extracted mesh.
func (s *Surface) Mesh() *Mesh { return s.mesh }
