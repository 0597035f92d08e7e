package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is what the panel displays.
type ControlState struct {
	Paused      bool
	IsoLevel    float32
	IsoMin      float32
	IsoMax      float32
	HasSurface  bool
	SnapshotDir string
}

// ControlActions reports what the user clicked this frame.
type ControlActions struct {
	TogglePause  bool
	Step         bool
	Reset        bool
	SaveSnapshot bool
	IsoLevel     float32
	Toggled      []OverlayID
}

// ControlsPanel renders the left-side control panel.
type ControlsPanel struct {
	painter *Painter
	x, y    int32
	width   int32
	height  int32 // as of the last Draw
	visible bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		painter: NewPainter(),
		x:       x,
		y:       y,
		width:   width,
		visible: true,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Contains reports whether a screen point is over the panel.
func (c *ControlsPanel) Contains(p rl.Vector2) bool {
	if !c.visible {
		return false
	}
	return rl.CheckCollisionPointRec(p, rl.Rectangle{
		X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height),
	})
}

// Draw renders the panel and returns the user's actions.
func (c *ControlsPanel) Draw(state ControlState, overlays *OverlayRegistry) ControlActions {
	actions := ControlActions{IsoLevel: state.IsoLevel}
	if !c.visible {
		return actions
	}

	r := c.painter
	padding := r.Style.Padding
	descs := overlays.All()
	c.height = 3*36 + 44 + int32(len(descs))*(r.Style.Row+8) + 24 + padding*2
	r.Panel(c.x, c.y, c.width, c.height)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	inner := float32(c.width - padding*2)
	half := (inner - 10) / 2

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += 24

	pauseLabel := "Pause"
	if state.Paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 28}, pauseLabel) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 28}, "Step") {
		actions.Step = true
	}
	y += 36

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 28}, "Reset") {
		actions.Reset = true
	}
	if state.SnapshotDir != "" && gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 28}, "Snapshot") {
		actions.SaveSnapshot = true
	}
	y += 36

	if state.HasSurface {
		rl.DrawText(fmt.Sprintf("Iso level: %.1f", state.IsoLevel), int32(x), int32(y), r.Style.TextSize, r.Style.Text)
		y += 16
		actions.IsoLevel = gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: inner, Height: 20},
			"", "",
			state.IsoLevel, state.IsoMin, state.IsoMax,
		)
		y += 28
	}

	rl.DrawText("Overlays", int32(x), int32(y), r.Style.HeaderSize, r.Style.Header)
	y += 20
	for _, desc := range descs {
		label := fmt.Sprintf("[%s] %s: %s", desc.KeyLabel, desc.Name, onOff(overlays.IsEnabled(desc.ID)))
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: float32(r.Style.Row + 4)}, label) {
			actions.Toggled = append(actions.Toggled, desc.ID)
		}
		y += float32(r.Style.Row + 8)
	}

	return actions
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
