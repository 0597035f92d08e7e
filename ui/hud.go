package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Particles int
	Frame     int64
	SimTime   float64
	FPS       int32
	Triangles int
	Dropped   int
	IsoLevel  float32
	Paused    bool
}

// HUD renders the main heads-up display.
type HUD struct {
	painter *Painter
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		painter: NewPainter(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Frame: %d | t = %.2fs | FPS: %d", data.Particles, data.Frame, data.SimTime, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	surfaceText := fmt.Sprintf("Triangles: %d | Iso: %.1f", data.Triangles, data.IsoLevel)
	surfaceColor := rl.LightGray
	if data.Dropped > 0 {
		surfaceText += fmt.Sprintf(" | Dropped: %d", data.Dropped)
		surfaceColor = rl.Orange
	}
	rl.DrawText(surfaceText, 10, 55, 16, surfaceColor)

	// Status
	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds phase timings for display.
type PerfPanelData struct {
	Phases   []string
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64
	Frame    time.Duration
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	painter *Painter
	x, y    int32
	width   int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		painter: NewPainter(),
		x:       x,
		y:       y,
		width:   width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	r := p.painter
	padding := r.Style.Padding
	height := int32(len(data.Phases)+2)*(r.Style.Row+2) + padding*2
	r.Panel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := r.Header(x, p.y+padding, "Phase timings")
	y = r.Field(x, y, "frame", data.Frame.Round(time.Microsecond).String())

	for _, name := range data.Phases {
		y = r.Meter(x, y, name, float32(data.PhasePct[name]/100), 0.25, p.width-padding*2)
	}
}
