package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal drag widget for a bounded float value.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64

	// Format renders the value next to the label, "%.2f" by default.
	Format string

	dragging bool
}

// NewSlider creates a slider with the default track size.
func NewSlider(label string, min, max, value float64) *Slider {
	return &Slider{
		Label:  label,
		Value:  value,
		Min:    min,
		Max:    max,
		W:      180,
		H:      12,
		Format: "%.2f",
	}
}

// Update handles mouse dragging. A drag that started on the track keeps
// following the cursor until the button is released, even outside the
// track bounds.
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if !pressed {
		s.dragging = false
		return
	}
	if !s.dragging {
		over := float64(mx) >= s.X && float64(mx) <= s.X+s.W &&
			float64(my) >= s.Y && float64(my) <= s.Y+s.H
		if !over {
			return
		}
		s.dragging = true
	}

	p := (float64(mx) - s.X) / s.W
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	s.Value = s.Min + p*(s.Max-s.Min)
}

// Draw renders the label, the current value and the track.
func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s: "+s.Format, s.Label, s.Value),
		int(s.X), int(s.Y-16))

	vector.FillRect(screen,
		float32(s.X), float32(s.Y), float32(s.W), float32(s.H),
		color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen,
		float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H),
		color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

// Height reports the vertical space the slider occupies in a panel,
// including its label line.
func (s *Slider) Height() float64 { return s.H + 22 }

// SetPosition implements Widget.
func (s *Slider) SetPosition(x, y float64) { s.X, s.Y = x, y+16 }
