// Package ui draws the viewer's panels: the HUD, the phase timing panel and
// the raygui control panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Palette is the set of colors shared by all panels.
type Palette struct {
	Background rl.Color
	Border     rl.Color
	Header     rl.Color
	Text       rl.Color
	Track      rl.Color // meter background
	Fill       rl.Color
	Hot        rl.Color // meter fill above its threshold
}

// Metrics is the layout spacing shared by all panels, in pixels.
type Metrics struct {
	Padding    int32
	Row        int32 // height of one text row
	LabelWidth int32
	MeterH     int32
	TextSize   int32
	HeaderSize int32
}

// Style combines colors and layout.
type Style struct {
	Palette
	Metrics
}

// DefaultStyle returns the dark panel style used by the viewer.
func DefaultStyle() Style {
	return Style{
		Palette: Palette{
			Background: rl.Color{R: 16, G: 20, B: 28, A: 230},
			Border:     rl.Color{R: 54, G: 66, B: 84, A: 255},
			Header:     rl.Color{R: 120, G: 190, B: 255, A: 255},
			Text:       rl.LightGray,
			Track:      rl.Color{R: 36, G: 40, B: 48, A: 255},
			Fill:       rl.Color{R: 60, G: 140, B: 220, A: 255},
			Hot:        rl.Color{R: 230, G: 120, B: 80, A: 255},
		},
		Metrics: Metrics{
			Padding:    10,
			Row:        16,
			LabelWidth: 110,
			MeterH:     12,
			TextSize:   12,
			HeaderSize: 14,
		},
	}
}
