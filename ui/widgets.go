package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Painter draws styled panel primitives. Each row method returns the y
// coordinate of the next row.
type Painter struct {
	Style Style
}

// NewPainter creates a painter with the default style.
func NewPainter() *Painter {
	return &Painter{Style: DefaultStyle()}
}

// Panel fills a bordered rectangle.
func (p *Painter) Panel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, p.Style.Background)
	rl.DrawRectangleLines(x, y, width, height, p.Style.Border)
}

// Header draws a section title.
func (p *Painter) Header(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, p.Style.HeaderSize, p.Style.Header)
	return y + p.Style.Row
}

// Field draws "label: value" with the value in a fixed column.
func (p *Painter) Field(x, y int32, label, value string) int32 {
	s := p.Style
	rl.DrawText(label+":", x, y, s.TextSize, s.Text)
	rl.DrawText(value, x+s.LabelWidth, y, s.TextSize, s.Text)
	return y + s.Row
}

// Meter draws a labelled fraction in [0,1] as a bar with a percentage.
// Fractions above hot use the hot color.
func (p *Painter) Meter(x, y int32, label string, frac, hot float32, width int32) int32 {
	s := p.Style
	frac = min(max(frac, 0), 1)
	trackX := x + s.LabelWidth
	trackW := width - s.LabelWidth - 50

	fill := s.Fill
	if frac > hot {
		fill = s.Hot
	}
	rl.DrawText(label+":", x, y, s.TextSize, s.Text)
	rl.DrawRectangle(trackX, y+2, trackW, s.MeterH, s.Track)
	rl.DrawRectangle(trackX, y+2, int32(float32(trackW)*frac), s.MeterH, fill)
	rl.DrawText(fmt.Sprintf("%.0f%%", frac*100), trackX+trackW+5, y, s.TextSize, s.Text)
	return y + s.Row + 2
}
