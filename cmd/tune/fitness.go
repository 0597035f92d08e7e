package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/game"
	"github.com/pthm-cable/sph/telemetry"
)

// failedFitness is returned for runs that error or blow up.
const failedFitness = 1e9

// Fitness weights.
const (
	weightDensityError  = 1.0
	weightDensitySpread = 0.5
	weightMotion        = 0.1
	warmupFraction      = 0.5 // leading share of windows ignored
)

// FitnessEvaluator runs headless simulations and scores how well the fluid
// settles at its target density.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	frames     int64
	window     int64
	seeds      []int64

	mu        sync.Mutex
	lastStats telemetry.FrameStats
}

// NewFitnessEvaluator creates an evaluator over the given seeds.
func NewFitnessEvaluator(params *ParamVector, frames int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	window := int64(baseCfg.Telemetry.StatsWindow)
	if window <= 0 {
		window = 60
	}
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		frames:     frames,
		window:     window,
		seeds:      seeds,
	}
}

// LastStats returns the final frame stats of the most recent run.
func (fe *FitnessEvaluator) LastStats() telemetry.FrameStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better),
// averaged over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	var total float64
	for _, seed := range fe.seeds {
		total += fe.runSimulation(x, seed)
	}
	return total / float64(len(fe.seeds))
}

// runSimulation runs one headless simulation and scores its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGame(cfg, game.Options{Seed: seed, Headless: true})
	if err != nil {
		slog.Warn("evaluation rejected", "error", err)
		return failedFitness
	}
	defer g.Unload()
	if g.Simulation().Len() == 0 {
		return failedFitness
	}

	var windows []telemetry.FrameStats
	for g.Frames() < fe.frames {
		if err := g.UpdateHeadless(); err != nil {
			slog.Warn("evaluation failed", "error", err, "frame", g.Frames())
			return failedFitness
		}
		if g.Frames()%fe.window == 0 {
			windows = append(windows, g.FrameStats())
		}
	}
	if len(windows) == 0 {
		return failedFitness
	}

	fe.mu.Lock()
	fe.lastStats = windows[len(windows)-1]
	fe.mu.Unlock()

	return computeFitness(windows[int(float64(len(windows))*warmupFraction):], cfg.Fluid.TargetDensity)
}

// copyConfig returns an independent copy of the base config with the
// surface pass disabled.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Surface.Enabled = false
	return &cfg
}

// computeFitness scores settled windows: relative median density error,
// relative density spread and mean speed.
func computeFitness(windows []telemetry.FrameStats, target float64) float64 {
	if len(windows) == 0 || target <= 0 {
		return failedFitness
	}
	errs := make([]float64, len(windows))
	spreads := make([]float64, len(windows))
	speeds := make([]float64, len(windows))
	for i, w := range windows {
		errs[i] = math.Abs(w.DensityP50-target) / target
		spreads[i] = w.DensityStd / target
		speeds[i] = w.SpeedMean
	}
	f := weightDensityError*stat.Mean(errs, nil) +
		weightDensitySpread*stat.Mean(spreads, nil) +
		weightMotion*stat.Mean(speeds, nil)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return failedFitness
	}
	return f
}
