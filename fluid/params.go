package fluid

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/spatial"
)

// ErrInvalidParams is returned for simulation settings that cannot run.
var ErrInvalidParams = errors.New("fluid: invalid parameters")

// Params configures a Simulation.
type Params struct {
	IterationsPerFrame int
	TimeScale          float32
	PredictPositions   bool
	Radius             float32 // smoothing radius and hash cell size
	Gravity            mgl32.Vec3
	Bounds             Bounds
	Spawn              SpawnParams
}

// Validate reports the first unusable setting.
func (p Params) Validate() error {
	if err := spatial.ValidateRadius(p.Radius); err != nil {
		return fmt.Errorf("radius: %w", err)
	}
	if p.IterationsPerFrame < 1 {
		return fmt.Errorf("%w: iterations_per_frame must be >= 1, got %d", ErrInvalidParams, p.IterationsPerFrame)
	}
	if p.TimeScale < 0 {
		return fmt.Errorf("%w: time_scale must be >= 0, got %v", ErrInvalidParams, p.TimeScale)
	}
	if p.Bounds.Enabled {
		for axis, s := range p.Bounds.Size {
			if !(s > 0) {
				return fmt.Errorf("%w: bounds size[%d] must be > 0, got %v", ErrInvalidParams, axis, s)
			}
		}
		if p.Bounds.Damping < 0 || p.Bounds.Damping > 1 {
			return fmt.Errorf("%w: damping must be in [0,1], got %v", ErrInvalidParams, p.Bounds.Damping)
		}
	}
	for axis, c := range p.Spawn.Counts {
		if c < 0 {
			return fmt.Errorf("%w: spawn count[%d] must be >= 0, got %d", ErrInvalidParams, axis, c)
		}
	}
	if p.Spawn.MaxParticles < 0 {
		return fmt.Errorf("%w: max_particles must be >= 0, got %d", ErrInvalidParams, p.Spawn.MaxParticles)
	}
	return nil
}

// ParamsFromConfig maps the loaded configuration onto simulation params.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		IterationsPerFrame: cfg.Simulation.IterationsPerFrame,
		TimeScale:          float32(cfg.Simulation.TimeScale),
		PredictPositions:   cfg.Simulation.PredictPositions,
		Radius:             float32(cfg.Fluid.Radius),
		Gravity:            cfg.Derived.Gravity,
		Bounds: Bounds{
			Center:  cfg.Derived.BoundsCenter,
			Size:    cfg.Derived.BoundsSize,
			Damping: float32(cfg.Bounds.Damping),
			Enabled: cfg.Bounds.Enabled,
		},
		Spawn: SpawnParams{
			Counts:       cfg.Spawn.Counts,
			Center:       cfg.Derived.SpawnCenter,
			Size:         float32(cfg.Spawn.Size),
			Jitter:       float32(cfg.Spawn.Jitter),
			Velocity:     cfg.Derived.SpawnVelocity,
			Seed:         cfg.Spawn.Seed,
			MaxParticles: cfg.Simulation.MaxParticles,
		},
	}
}

// ModelParamsFromConfig maps the fluid section onto SpikyModel params.
func ModelParamsFromConfig(cfg *config.Config) ModelParams {
	return ModelParams{
		Radius:                 float32(cfg.Fluid.Radius),
		Mass:                   float32(cfg.Fluid.Mass),
		TargetDensity:          float32(cfg.Fluid.TargetDensity),
		PressureMultiplier:     float32(cfg.Fluid.PressureMultiplier),
		NearPressureMultiplier: float32(cfg.Fluid.NearPressureMultiplier),
		Viscosity:              float32(cfg.Fluid.Viscosity),
	}
}
