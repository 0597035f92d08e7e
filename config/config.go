// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Fluid      FluidConfig      `yaml:"fluid"`
	Bounds     BoundsConfig     `yaml:"bounds"`
	Surface    SurfaceConfig    `yaml:"surface"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds stepping parameters.
type SimulationConfig struct {
	IterationsPerFrame int     `yaml:"iterations_per_frame"` // Sub-steps per rendered frame
	TimeScale          float64 `yaml:"time_scale"`           // Multiplier on the sub-step delta
	FixedDT            float64 `yaml:"fixed_dt"`             // Frame delta used in headless mode
	MaxParticles       int     `yaml:"max_particles"`        // Hard cap on spawned particles
	PredictPositions   bool    `yaml:"predict_positions"`    // Hash predicted positions instead of current ones
	Workers            int     `yaml:"workers"`              // Worker pool size (0 = GOMAXPROCS)
}

// SpawnConfig describes the initial particle block.
type SpawnConfig struct {
	Counts   [3]int     `yaml:"counts"`   // Particles per axis
	Center   [3]float64 `yaml:"center"`
	Size     float64    `yaml:"size"`     // Edge length of the spawn cube
	Jitter   float64    `yaml:"jitter"`   // Radius of the random offset per particle
	Velocity [3]float64 `yaml:"velocity"` // Initial velocity for every particle
	Seed     int64      `yaml:"seed"`
}

// FluidConfig holds the force model parameters.
type FluidConfig struct {
	Radius                 float64    `yaml:"radius"` // Smoothing radius, also the hash cell size
	Mass                   float64    `yaml:"mass"`
	Gravity                [3]float64 `yaml:"gravity"`
	TargetDensity          float64    `yaml:"target_density"`
	PressureMultiplier     float64    `yaml:"pressure_multiplier"`
	NearPressureMultiplier float64    `yaml:"near_pressure_multiplier"`
	Viscosity              float64    `yaml:"viscosity"`
}

// BoundsConfig holds the axis-aligned container.
type BoundsConfig struct {
	Center  [3]float64 `yaml:"center"`
	Size    [3]float64 `yaml:"size"`
	Damping float64    `yaml:"damping"` // Velocity retained on reflection, in [0,1]
	Enabled bool       `yaml:"enabled"`
}

// SurfaceConfig holds density field and marching cubes parameters.
type SurfaceConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Resolution       int     `yaml:"resolution"`         // Grid points along the longest bounds axis
	IsoLevel         float64 `yaml:"iso_level"`
	MaxTriangleBytes int64   `yaml:"max_triangle_bytes"` // Budget for the triangle buffer
	FieldBlend       float64 `yaml:"field_blend"`        // Weight of the new sample, 1 = no smoothing
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Frames between frame stats records
	PerfWindow  int `yaml:"perf_window"`  // Rolling window for phase timings
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ParticleCount int        // min(product of spawn counts, max_particles)
	Gravity       mgl32.Vec3 // Fluid.Gravity as Vec3
	BoundsCenter  mgl32.Vec3
	BoundsSize    mgl32.Vec3
	SpawnCenter   mgl32.Vec3
	SpawnVelocity mgl32.Vec3
	FixedDT32     float32 // Simulation.FixedDT as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	n := 1
	for _, k := range c.Spawn.Counts {
		if k < 0 {
			k = 0
		}
		n *= k
	}
	if c.Simulation.MaxParticles > 0 && n > c.Simulation.MaxParticles {
		n = c.Simulation.MaxParticles
	}
	c.Derived.ParticleCount = n

	c.Derived.Gravity = vec3(c.Fluid.Gravity)
	c.Derived.BoundsCenter = vec3(c.Bounds.Center)
	c.Derived.BoundsSize = vec3(c.Bounds.Size)
	c.Derived.SpawnCenter = vec3(c.Spawn.Center)
	c.Derived.SpawnVelocity = vec3(c.Spawn.Velocity)
	c.Derived.FixedDT32 = float32(c.Simulation.FixedDT)
}

func vec3(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
