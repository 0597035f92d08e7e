package fluid

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sph/parallel"
	"github.com/pthm-cable/sph/spatial"
	"github.com/pthm-cable/sph/telemetry"
)

// PhaseObserver is told when each pipeline phase begins.
// *telemetry.PerfCollector satisfies it.
type PhaseObserver interface {
	StartPhase(phase string)
}

// Simulation owns the particle buffers and runs the sub-step pipeline.
// Each phase is a full barrier over all particles.
type Simulation struct {
	params Params
	model  ForceModel
	pool   *parallel.Pool
	index  *spatial.Index

	particles Particles
	view      View
	observer  PhaseObserver

	control
}

// NewSimulation validates params, allocates buffers and spawns the particles.
func NewSimulation(params Params, model ForceModel, pool *parallel.Pool) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("%w: nil force model", ErrInvalidParams)
	}

	s := &Simulation{
		params: params,
		model:  model,
		pool:   pool,
		index:  spatial.NewIndex(pool),
	}
	s.resize(params.Spawn.Count())
	s.spawn()
	return s, nil
}

// resize allocates every per-particle buffer for n particles.
func (s *Simulation) resize(n int) {
	s.particles.Resize(n)
	s.index.Resize(n)
	s.view = View{
		Positions:     s.particles.Predicted,
		Velocities:    s.particles.Velocities,
		Densities:     s.particles.Densities,
		NearDensities: s.particles.NearDensities,
	}
}

func (s *Simulation) spawn() {
	p := &s.particles
	Spawn(s.params.Spawn, p.Positions, p.Velocities)
	copy(p.Predicted, p.Positions)
	clear(p.Densities)
	clear(p.NearDensities)
	clear(p.pressure)
	clear(p.viscosity)
}

// SetObserver installs a phase observer. nil disables phase reporting.
func (s *Simulation) SetObserver(o PhaseObserver) {
	s.observer = o
}

func (s *Simulation) phase(name string) {
	if s.observer != nil {
		s.observer.StartPhase(name)
	}
}

// Params returns the configuration the simulation was built with.
func (s *Simulation) Params() Params { return s.params }

// Model returns the force model.
func (s *Simulation) Model() ForceModel { return s.model }

// Len returns the particle count.
func (s *Simulation) Len() int { return s.particles.Len() }

// Positions returns the current positions. The slice is owned by the simulation.
func (s *Simulation) Positions() []mgl32.Vec3 { return s.particles.Positions }

// Velocities returns the current velocities.
func (s *Simulation) Velocities() []mgl32.Vec3 { return s.particles.Velocities }

// Densities returns the densities from the last density pass.
func (s *Simulation) Densities() []float32 { return s.particles.Densities }

// NearDensities returns the near densities from the last density pass.
func (s *Simulation) NearDensities() []float32 { return s.particles.NearDensities }

// Index returns the neighbour index built in the last sub-step.
func (s *Simulation) Index() *spatial.Index { return s.index }

// SubDelta returns the per-iteration time step for a frame delta.
func (s *Simulation) SubDelta(frameDelta float32) float32 {
	return frameDelta / float32(s.params.IterationsPerFrame) * s.params.TimeScale
}

// Tick advances one frame of IterationsPerFrame sub-steps unless paused.
// It reports whether any sub-step ran. Control requests made during the tick
// are applied once it completes.
func (s *Simulation) Tick(frameDelta float32) (bool, error) {
	if s.Len() == 0 || !s.beginTick() {
		return false, nil
	}

	var err error
	dt := s.SubDelta(frameDelta)
	for it := 0; it < s.params.IterationsPerFrame; it++ {
		if err = s.step(dt); err != nil {
			break
		}
	}

	s.endTick()
	return err == nil, err
}

// Step runs one sub-step of the pipeline regardless of the pause state.
// Control requests made while it runs are applied once it returns. It does
// not count as a frame and fails with ErrTickInProgress inside a tick.
func (s *Simulation) Step(dt float32) error {
	if !s.beginStep() {
		return ErrTickInProgress
	}
	defer s.endStep()
	return s.step(dt)
}

func (s *Simulation) step(dt float32) error {
	n := s.Len()
	if n == 0 {
		return nil
	}
	p := &s.particles

	s.phase(telemetry.PhaseExternalForces)
	s.applyExternalForces(dt)

	s.phase(telemetry.PhaseSpatialHash)
	if err := s.index.Hash(p.Predicted, s.params.Radius); err != nil {
		return fmt.Errorf("spatial hash: %w", err)
	}

	s.phase(telemetry.PhaseSort)
	s.index.Sort()

	s.phase(telemetry.PhaseDensity)
	s.pool.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			d, near := s.model.Density(i, &s.view, s.index.Candidates(p.Predicted[i]))
			p.Densities[i] = d
			p.NearDensities[i] = near
		}
	})

	s.phase(telemetry.PhasePressure)
	s.pool.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			p.pressure[i] = s.model.PressureForce(i, &s.view, s.index.Candidates(p.Predicted[i]))
		}
	})

	s.phase(telemetry.PhaseViscosity)
	s.pool.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			p.viscosity[i] = s.model.ViscosityForce(i, &s.view, s.index.Candidates(p.Predicted[i]))
		}
	})

	s.phase(telemetry.PhaseIntegrate)
	s.integrate(dt)
	return nil
}

func (s *Simulation) applyExternalForces(dt float32) {
	p := &s.particles
	gravityStep := s.params.Gravity.Mul(dt)
	predict := s.params.PredictPositions
	s.pool.For(s.Len(), func(start, end int) {
		for i := start; i < end; i++ {
			p.Velocities[i] = p.Velocities[i].Add(gravityStep)
			if predict {
				p.Predicted[i] = p.Positions[i].Add(p.Velocities[i].Mul(dt))
			} else {
				p.Predicted[i] = p.Positions[i]
			}
		}
	})
}

func (s *Simulation) integrate(dt float32) {
	p := &s.particles
	bounds := s.params.Bounds
	s.pool.For(s.Len(), func(start, end int) {
		for i := start; i < end; i++ {
			var accel mgl32.Vec3
			if rho := p.Densities[i]; rho > 0 {
				accel = p.pressure[i].Add(p.viscosity[i]).Mul(1 / rho)
			}
			vel := p.Velocities[i].Add(accel.Mul(dt))
			pos := p.Positions[i].Add(vel.Mul(dt))
			p.Positions[i], p.Velocities[i] = bounds.Collide(pos, vel)
		}
	})
}
