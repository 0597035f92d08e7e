package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Update handles input and advances one frame by the window's frame time.
func (g *Game) Update() {
	g.handleInput()

	dt := min(rl.GetFrameTime(), maxFrameDelta)
	if err := g.step(dt); err != nil {
		slog.Error("frame failed, pausing", "error", err, "frame", g.Frames())
		g.sim.Pause()
	}
}

// UpdateHeadless advances one frame by the configured fixed delta.
func (g *Game) UpdateHeadless() error {
	return g.step(g.cfg.Derived.FixedDT32)
}

// step runs the simulation tick and the surface pass for one frame.
func (g *Game) step(frameDelta float32) error {
	g.perfCollector.StartFrame()

	ran, err := g.sim.Tick(frameDelta)
	if err != nil {
		return fmt.Errorf("simulation tick: %w", err)
	}
	if ran {
		g.simTime += float64(frameDelta * g.sim.Params().TimeScale)
	}

	extracted := false
	if g.surface != nil && (ran || g.surfaceDirty) {
		if err := g.surface.Update(g.sim.Positions()); err != nil {
			return fmt.Errorf("surface update: %w", err)
		}
		g.surfaceDirty = false
		extracted = true
	}

	if !ran && !extracted {
		return nil
	}
	g.perfCollector.EndFrame()

	if ran && g.Frames()%int64(g.statsWindow) == 0 {
		g.flushTelemetry()
	}
	return nil
}
