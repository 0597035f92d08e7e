package game

import rl "github.com/gen2brain/raylib-go/raylib"

// isoStep is the iso-level change per [ or ] press.
const isoStep = 10

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.sim.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyRight) {
		g.sim.StepOnce()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reset()
	}
	if rl.IsKeyPressed(rl.KeyF5) && g.snapshotDir != "" {
		g.saveSnapshot(nil)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	if g.surface != nil {
		if rl.IsKeyPressed(rl.KeyRightBracket) {
			g.setIsoLevel(g.surface.IsoLevel() + isoStep)
		}
		if rl.IsKeyPressed(rl.KeyLeftBracket) {
			g.setIsoLevel(max(g.surface.IsoLevel()-isoStep, 0))
		}
	}

	// Overlay toggles (P, M, W, B, T)
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		g.overlays.HandleKeyPress(key)
	}

	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())
	g.perfPanel.SetPosition(int32(g.screenWidth)-250, 10)
	g.background.Resize(int32(g.screenWidth), int32(g.screenHeight))
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	mouse := rl.GetMousePosition()
	if g.controls.Contains(mouse) {
		return
	}

	// Right drag orbits
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		g.camera.Orbit(delta.X*0.01, delta.Y*0.01)
	}

	// Arrow keys orbit too; Right is taken by step
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Orbit(-0.03, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Orbit(0, 0.03)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Orbit(0, -0.03)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 - wheel*0.1)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
