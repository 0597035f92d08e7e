package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

// Draw renders the scene and the UI.
func (g *Game) Draw() {
	g.perfCollector.RecordRender()

	rl.BeginDrawing()
	g.background.Draw()

	rl.BeginMode3D(g.camera3D())
	if g.overlays.IsEnabled(ui.OverlayBounds) {
		rl.DrawCubeWiresV(renderer.Vec3(g.cfg.Derived.BoundsCenter), renderer.Vec3(g.cfg.Derived.BoundsSize), rl.Gray)
	}
	if g.overlays.IsEnabled(ui.OverlayParticles) {
		g.particleRenderer.Draw(g.sim.Positions(), g.sim.Velocities())
	}
	if g.surface != nil {
		switch {
		case g.overlays.IsEnabled(ui.OverlayMesh):
			g.surfaceRenderer.Draw(g.surface.Mesh())
		case g.overlays.IsEnabled(ui.OverlayWireframe):
			g.surfaceRenderer.DrawWireframe(g.surface.Mesh())
		}
	}
	rl.EndMode3D()

	g.drawUI()

	rl.EndDrawing()
}

func (g *Game) camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   renderer.Vec3(g.camera.Position()),
		Target:     renderer.Vec3(g.camera.Target),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       g.camera.FovY,
		Projection: rl.CameraPerspective,
	}
}

// drawUI renders the HUD and panels and applies the control panel's actions.
func (g *Game) drawUI() {
	hud := ui.HUDData{
		Title:     "SPH Fluid",
		Particles: g.sim.Len(),
		Frame:     g.Frames(),
		SimTime:   g.simTime,
		FPS:       rl.GetFPS(),
		Paused:    g.sim.Paused(),
	}
	state := ui.ControlState{
		Paused:      hud.Paused,
		HasSurface:  g.surface != nil,
		SnapshotDir: g.snapshotDir,
	}
	if g.surface != nil {
		mesh := g.surface.Mesh()
		hud.Triangles = mesh.Count()
		hud.Dropped = mesh.Dropped()
		hud.IsoLevel = g.surface.IsoLevel()
		state.IsoLevel = hud.IsoLevel
		state.IsoMin = 0
		state.IsoMax = max(float32(g.cfg.Fluid.TargetDensity)*2, hud.IsoLevel)
	}
	g.hud.Draw(hud)
	g.hud.DrawControls(int32(g.screenHeight), "[Space] Pause  [Right] Step  [R] Reset  [ and ] Iso  [RMB] Orbit  [Wheel] Zoom  [Home] Camera")

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			Phases:   telemetry.Phases,
			PhaseAvg: stats.PhaseAvg,
			PhasePct: stats.PhasePct,
			Frame:    stats.AvgFrameDuration,
		})
	}

	g.applyControls(g.controls.Draw(state, g.overlays))
}

func (g *Game) applyControls(a ui.ControlActions) {
	if a.TogglePause {
		g.sim.TogglePause()
	}
	if a.Step {
		g.sim.StepOnce()
	}
	if a.Reset {
		g.reset()
	}
	if a.SaveSnapshot {
		g.saveSnapshot(nil)
	}
	for _, id := range a.Toggled {
		g.overlays.Toggle(id)
	}
	g.setIsoLevel(a.IsoLevel)
}
